package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/suhuimengx/cwndplot/src/cwnd"
)

func plotTicks(ts []chart.Tick) plot.ConstantTicks {
	out := make(plot.ConstantTicks, len(ts))
	for i, t := range ts {
		out[i] = plot.Tick{Value: t.Value, Label: t.Label}
	}
	return out
}

// buildGonumPlot assembles the gonum/plot figure for s and returns the plotted points.
func buildGonumPlot(s cwnd.Series, o Options) (*plot.Plot, plotter.XYs, error) {
	p := plot.New()
	p.Title.Text = o.Title
	p.Title.TextStyle.Font.Size = vg.Points(titleFontPt)
	p.X.Label.Text = o.XLabel
	p.X.Label.TextStyle.Font.Size = vg.Points(labelFontPt)
	p.Y.Label.Text = o.YLabel
	p.Y.Label.TextStyle.Font.Size = vg.Points(labelFontPt)
	p.X.Tick.Label.Font.Size = vg.Points(tickFontPt)
	p.Y.Tick.Label.Font.Size = vg.Points(tickFontPt)

	xMin, xMax, _ := minMax(s.Times())
	yMin, yMax, _ := minMax(s.Values())
	xRange, xTicks := buildRangeAndTicks(xMin, xMax, xTickCount, axisPadPct)
	yRange, yTicks := buildRangeAndTicks(yMin, yMax, yTickCount, axisPadPct)
	p.X.Min, p.X.Max = xRange.Min, xRange.Max
	p.Y.Min, p.Y.Max = yRange.Min, yRange.Max
	p.X.Tick.Marker = plotTicks(xTicks)
	p.Y.Tick.Marker = plotTicks(yTicks)

	gridLine := draw.LineStyle{
		Color:  color.NRGBA{R: gridColor.R, G: gridColor.G, B: gridColor.B, A: gridColor.A},
		Width:  vg.Points(gridWidthPt),
		Dashes: []vg.Length{vg.Points(3.7 * gridWidthPt), vg.Points(1.6 * gridWidthPt)},
	}
	grid := plotter.NewGrid()
	grid.Vertical = gridLine
	grid.Horizontal = gridLine
	p.Add(grid)

	xys := make(plotter.XYs, len(s))
	for i, pt := range s {
		xys[i].X = pt.Time
		xys[i].Y = pt.Value
	}
	line, points, err := plotter.NewLinePoints(xys)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: gonum line: %v", cwnd.ErrParse, err)
	}
	blue := color.RGBA{R: lineColor.R, G: lineColor.G, B: lineColor.B, A: lineColor.A}
	line.Color = blue
	line.Width = vg.Points(lineWidthPt)
	points.Shape = draw.CircleGlyph{}
	points.Color = blue
	points.Radius = vg.Points(markerSizePt / 2)
	p.Add(line, points)

	p.Legend.Add(o.Legend, line, points)
	p.Legend.Top = true
	p.Legend.Left = true
	p.Legend.TextStyle.Font.Size = vg.Points(legendFontPt)
	return p, xys, nil
}

func renderGonum(s cwnd.Series, o Options) (image.Image, error) {
	p, _, err := buildGonumPlot(s, o)
	if err != nil {
		return nil, err
	}
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(o.WidthIn)*vg.Inch, vg.Length(o.HeightIn)*vg.Inch),
		vgimg.UseDPI(int(math.Round(o.DPI))),
	)
	p.Draw(draw.New(c))
	return c.Image(), nil
}
