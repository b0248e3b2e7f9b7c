package cwnd

import "fmt"

// Point is one congestion-window sample.
type Point struct {
	Time  float64 // seconds
	Value float64 // bytes
}

// Series is a trace in file order. Times are expected to be non-decreasing
// but are not required to be; see OutOfOrder.
type Series []Point

// Times returns the x values in order.
func (s Series) Times() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Time
	}
	return out
}

// Values returns the y values in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// OutOfOrder counts samples whose time is lower than the previous sample's.
func (s Series) OutOfOrder() int {
	n := 0
	for i := 1; i < len(s); i++ {
		if s[i].Time < s[i-1].Time {
			n++
		}
	}
	return n
}

// Series zips two columns of the table into a trace.
func (t *Table) Series(timeCol, valueCol int) (Series, error) {
	xs, err := t.Column(timeCol)
	if err != nil {
		return nil, fmt.Errorf("time %w", err)
	}
	ys, err := t.Column(valueCol)
	if err != nil {
		return nil, fmt.Errorf("value %w", err)
	}
	s := make(Series, len(xs))
	for i := range xs {
		s[i] = Point{Time: xs[i], Value: ys[i]}
	}
	return s, nil
}

// LoadSeries loads path and extracts the configured columns.
func LoadSeries(path string, opts LoadOptions) (Series, error) {
	t, err := LoadTable(path, opts)
	if err != nil {
		return nil, err
	}
	s, err := t.Series(opts.TimeColumn, opts.ValueColumn)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
