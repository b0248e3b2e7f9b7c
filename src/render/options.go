package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/suhuimengx/cwndplot/src/cwnd"
)

// Backend selects the chart engine.
type Backend string

const (
	BackendGoChart Backend = "gochart"
	BackendGonum   Backend = "gonum"
)

// ParseBackend maps a flag value to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "gochart", "go-chart":
		return BackendGoChart, nil
	case "gonum", "gonum-plot":
		return BackendGonum, nil
	default:
		return "", fmt.Errorf("unknown backend %q (want gochart or gonum)", s)
	}
}

// Presentation constants in typographic points (1/72 inch).
const (
	titleFontPt  = 14.0
	labelFontPt  = 12.0
	legendFontPt = 12.0
	tickFontPt   = 10.0
	lineWidthPt  = 1.5
	markerSizePt = 6.0 // marker diameter
	gridWidthPt  = 0.8
)

// Options carries the presentation of a cwnd chart. DefaultOptions reproduces
// the classic "Congestion Window Over Time" figure.
type Options struct {
	Backend Backend

	WidthIn  float64 // canvas width in inches
	HeightIn float64 // canvas height in inches
	DPI      float64

	Title  string
	XLabel string
	YLabel string
	Legend string

	// Caption, when set, is drawn as a footnote in the bottom-left corner.
	Caption string

	// Strict rejects traces whose timestamps go backwards.
	Strict bool

	Load cwnd.LoadOptions
}

// DefaultOptions returns the fixed presentation: 14x6 in at 300 DPI.
func DefaultOptions() Options {
	return Options{
		Backend:  BackendGoChart,
		WidthIn:  14,
		HeightIn: 6,
		DPI:      300,
		Title:    "Congestion Window Over Time",
		XLabel:   "Time (s)",
		YLabel:   "Congestion Window (bytes)",
		Legend:   "Congestion Window",
		Load:     cwnd.DefaultLoadOptions(),
	}
}

// PixelSize returns the raster size of the canvas.
func (o Options) PixelSize() (int, int) {
	return int(math.Round(o.WidthIn * o.DPI)), int(math.Round(o.HeightIn * o.DPI))
}

// px converts points to pixels at the configured resolution.
func (o Options) px(pt float64) float64 { return pt * o.DPI / 72 }

func (o Options) validate() error {
	if _, err := ParseBackend(string(o.Backend)); err != nil {
		return err
	}
	if !(o.DPI > 0) || !(o.WidthIn > 0) || !(o.HeightIn > 0) {
		return fmt.Errorf("invalid canvas %gx%g in at %g dpi", o.WidthIn, o.HeightIn, o.DPI)
	}
	if o.Backend == BackendGonum && o.DPI != math.Round(o.DPI) {
		return fmt.Errorf("gonum backend needs an integer dpi, got %g", o.DPI)
	}
	w, h := o.PixelSize()
	if w < 16 || h < 16 {
		return fmt.Errorf("canvas %dx%d px is too small", w, h)
	}
	if w*h > 100_000_000 {
		return fmt.Errorf("canvas %dx%d px is too large", w, h)
	}
	return nil
}
