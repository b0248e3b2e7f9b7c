package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/suhuimengx/cwndplot/src/cwnd"
)

var (
	// lineColor is pure blue, the classic color of this figure.
	lineColor = drawing.Color{R: 0, G: 0, B: 255, A: 255}
	gridColor = drawing.Color{R: 0xb0, G: 0xb0, B: 0xb0, A: 178} // 0.7 opacity
)

const (
	xTickCount = 8
	yTickCount = 6
	axisPadPct = 0.05
)

// lineStyle returns a style that renders a connecting line with a dot per sample.
func lineStyle(o Options) chart.Style {
	return chart.Style{
		StrokeColor: lineColor,
		StrokeWidth: o.px(lineWidthPt),
		DotColor:    lineColor,
		DotWidth:    o.px(markerSizePt / 2),
	}
}

func gridStyle(o Options) chart.Style {
	// matplotlib's "--" pattern scaled by the grid line width.
	return chart.Style{
		StrokeColor:     gridColor,
		StrokeWidth:     o.px(gridWidthPt),
		StrokeDashArray: []float64{o.px(3.7 * gridWidthPt), o.px(1.6 * gridWidthPt)},
	}
}

func gridLines(ticks []chart.Tick, st chart.Style) []chart.GridLine {
	out := make([]chart.GridLine, 0, len(ticks))
	for _, t := range ticks {
		out = append(out, chart.GridLine{Value: t.Value, Style: st})
	}
	return out
}

// buildChart assembles the go-chart definition for s. Both axes get explicit
// ranges so a single sample or a constant window still has a non-zero span.
func buildChart(s cwnd.Series, o Options) chart.Chart {
	xs, ys := s.Times(), s.Values()
	xMin, xMax, _ := minMax(xs)
	yMin, yMax, _ := minMax(ys)
	xRange, xTicks := buildRangeAndTicks(xMin, xMax, xTickCount, axisPadPct)
	yRange, yTicks := buildRangeAndTicks(yMin, yMax, yTickCount, axisPadPct)

	w, h := o.PixelSize()
	grid := gridStyle(o)
	pad := int(o.px(12))
	ch := chart.Chart{
		Title:      o.Title,
		TitleStyle: chart.Style{FontSize: titleFontPt},
		Width:      w,
		Height:     h,
		DPI:        o.DPI,
		Background: chart.Style{Padding: chart.Box{Top: int(o.px(28)), Left: pad, Right: pad, Bottom: pad}},
		XAxis: chart.XAxis{
			Name:           o.XLabel,
			NameStyle:      chart.Style{FontSize: labelFontPt},
			Style:          chart.Style{FontSize: tickFontPt},
			Range:          xRange,
			Ticks:          xTicks,
			GridMajorStyle: grid,
			GridLines:      gridLines(xTicks, grid),
		},
		YAxis: chart.YAxis{
			Name:           o.YLabel,
			NameStyle:      chart.Style{FontSize: labelFontPt},
			Style:          chart.Style{FontSize: tickFontPt},
			Range:          yRange,
			Ticks:          yTicks,
			GridMajorStyle: grid,
			GridLines:      gridLines(yTicks, grid),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: o.Legend, XValues: xs, YValues: ys, Style: lineStyle(o)},
		},
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch, chart.Style{FontSize: legendFontPt})}
	return ch
}

func renderGoChart(s cwnd.Series, o Options) (image.Image, error) {
	ch := buildChart(s, o)
	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("%w: go-chart render: %v", cwnd.ErrWrite, err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("%w: go-chart decode: %v", cwnd.ErrWrite, err)
	}
	return img, nil
}
