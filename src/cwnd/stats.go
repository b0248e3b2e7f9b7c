package cwnd

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats summarizes a trace.
type Stats struct {
	Count    int
	Start    float64 // time of the first sample
	End      float64 // time of the last sample
	Duration float64 // End - Start
	Min      float64
	Max      float64
	Mean     float64
	StdDev   float64 // sample standard deviation, 0 for a single sample
	Final    float64 // value of the last sample
	// Reductions counts samples lower than their predecessor (window cuts).
	Reductions int
	OutOfOrder int
}

// Summarize computes Stats for s. An empty series yields zero Stats.
func Summarize(s Series) Stats {
	if len(s) == 0 {
		return Stats{}
	}
	vals := s.Values()
	st := Stats{
		Count:      len(s),
		Start:      s[0].Time,
		End:        s[len(s)-1].Time,
		Min:        floats.Min(vals),
		Max:        floats.Max(vals),
		Mean:       stat.Mean(vals, nil),
		Final:      vals[len(vals)-1],
		OutOfOrder: s.OutOfOrder(),
	}
	st.Duration = st.End - st.Start
	if len(vals) > 1 {
		st.StdDev = stat.StdDev(vals, nil)
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] < vals[i-1] {
			st.Reductions++
		}
	}
	return st
}
