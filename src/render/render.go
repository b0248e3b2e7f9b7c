// Package render turns a congestion-window trace into a PNG line chart.
//
// RenderFile is the one-shot entry point: load, build the chart, encode and
// persist. Nothing is written unless every step succeeds.
package render

import (
	"fmt"
	"image"
	"time"

	"github.com/suhuimengx/cwndplot/src/cwnd"
)

// Error kinds, shared with the loader.
var (
	ErrNotFound = cwnd.ErrNotFound
	ErrParse    = cwnd.ErrParse
	ErrWrite    = cwnd.ErrWrite
)

// Artifact describes a persisted chart.
type Artifact struct {
	Path   string
	Width  int
	Height int
	DPI    float64
	Bytes  int // encoded size
	Points int // samples plotted
}

// RenderFile loads the trace at inputPath and writes its chart to outputPath.
func RenderFile(inputPath, outputPath string, opts Options) (*Artifact, error) {
	defer cwnd.TimeTrack(time.Now(), "render "+outputPath)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	s, err := cwnd.LoadSeries(inputPath, opts.Load)
	if err != nil {
		return nil, err
	}
	if n := s.OutOfOrder(); n > 0 {
		if opts.Strict {
			return nil, fmt.Errorf("%w: %s: %d samples go back in time", ErrParse, inputPath, n)
		}
		cwnd.Warnf("%s: %d samples go back in time; plotting in file order", inputPath, n)
	}
	data, err := Render(s, opts)
	if err != nil {
		return nil, err
	}
	if err := writeFileAtomic(outputPath, data); err != nil {
		return nil, err
	}
	w, h := opts.PixelSize()
	a := &Artifact{Path: outputPath, Width: w, Height: h, DPI: opts.DPI, Bytes: len(data), Points: len(s)}
	cwnd.Infof("wrote %s (%dx%d px, %g dpi, %d points, backend=%s)", a.Path, a.Width, a.Height, a.DPI, a.Points, opts.Backend)
	return a, nil
}

// Render draws s and returns the encoded PNG.
func Render(s cwnd.Series, opts Options) ([]byte, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("%w: empty series", ErrParse)
	}
	var (
		img image.Image
		err error
	)
	switch opts.Backend {
	case BackendGonum:
		img, err = renderGonum(s, opts)
	default:
		img, err = renderGoChart(s, opts)
	}
	if err != nil {
		return nil, err
	}
	if opts.Caption != "" {
		img = drawCaption(img, opts.Caption, opts.DPI)
	}
	data, err := encodePNG(img, opts.DPI)
	if err != nil {
		return nil, fmt.Errorf("%w: png encode: %v", ErrWrite, err)
	}
	return data, nil
}
