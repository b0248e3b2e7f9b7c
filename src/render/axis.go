package render

import (
	"fmt"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
)

// maxTicks guards the tick loop against pathological spans.
const maxTicks = 64

// minMax returns the bounds of vs. ok is false when vs is empty.
func minMax(vs []float64) (lo, hi float64, ok bool) {
	lo, hi = math.MaxFloat64, -math.MaxFloat64
	for _, v := range vs {
		if math.IsNaN(v) {
			continue
		}
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return lo, hi, true
}

// widen turns a degenerate [v,v] span into a usable one around v.
func widen(min, max float64) (float64, float64) {
	if max > min {
		return min, max
	}
	d := math.Abs(min) * 0.1
	if d == 0 {
		d = 1
	}
	return min - d, max + d
}

// niceStep picks a step from 1, 2, 2.5, 5, 10 x 10^k yielding about n intervals.
func niceStep(min, max float64, n int) float64 {
	span := max - min
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best := mag
	bestScore := math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Ceil(span / step)
		if count < 2 {
			count = 2
		}
		if score := math.Abs(count - float64(n)); score < bestScore {
			bestScore = score
			best = step
		}
	}
	return best
}

// niceTicks generates roughly n tick marks covering [min, max] using nice increments.
// The first tick is <= min and the last tick is >= max.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	min, max = widen(min, max)
	step := niceStep(min, max, n)
	start := math.Floor(min/step) * step
	end := math.Ceil(max/step) * step
	if start > min {
		start -= step
	}
	if end < max {
		end += step
	}
	ticks := []chart.Tick{}
	for i := 0; i < maxTicks; i++ {
		v := start + float64(i)*step
		if v > end+step/2 {
			break
		}
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v, step)})
	}
	return ticks
}

// formatTick renders v with just enough decimals to distinguish ticks spaced by step.
func formatTick(v, step float64) string {
	if math.Abs(v) < step*1e-9 {
		return "0"
	}
	decimals := 0
	if step > 0 && step < 1 {
		decimals = int(math.Ceil(-math.Log10(step) - 1e-9))
		// 0.25, 2.5e-3, ... need one more digit
		if s := step * math.Pow(10, float64(decimals)); math.Abs(s-math.Round(s)) > 1e-9 {
			decimals++
		}
	} else if math.Abs(step-math.Round(step)) > 1e-9 {
		decimals = 1
	}
	out := fmt.Sprintf("%.*f", decimals, v)
	if strings.HasPrefix(out, "-") && strings.Trim(out, "-0.") == "" {
		out = out[1:]
	}
	return out
}

// buildRangeAndTicks returns nice ticks spanning [min,max] and a range that
// covers them, extended on each side by padPct of the tick span.
func buildRangeAndTicks(min, max float64, n int, padPct float64) (*chart.ContinuousRange, []chart.Tick) {
	ticks := niceTicks(min, max, n)
	if len(ticks) < 2 {
		lo, hi := widen(min, max)
		return &chart.ContinuousRange{Min: lo, Max: hi}, ticks
	}
	first, last := ticks[0].Value, ticks[len(ticks)-1].Value
	pad := (last - first) * padPct
	return &chart.ContinuousRange{Min: first - pad, Max: last + pad}, ticks
}
