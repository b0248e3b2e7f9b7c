// plotcwnd renders a congestion-window trace to a PNG line chart.
//
// The input is a whitespace separated table with time (s) in one column and
// the congestion window (bytes) in another, as written by simulator cwnd
// trace sinks. Defaults reproduce the classic figure: 14x6 in at 300 DPI,
// blue line with markers, dashed translucent grid and a legend.
//
// Design notes:
//   - One-shot: load, render, persist, exit. No interactive display.
//   - The PNG is written to a temp file and renamed, so a failed run never
//     leaves a truncated or modified image behind.
//   - Exit status is 1 on any load, parse or write failure.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/suhuimengx/cwndplot/src/cwnd"
	"github.com/suhuimengx/cwndplot/src/render"
)

const (
	defaultInput  = "ScpsTpNewRenoConrruptionTest-cwnd.data"
	defaultOutput = "ScpsTpNewRenoCorruptionTest-cwnd.png"
)

// parseDelimiter maps the -delimiter flag to a rune. Empty means whitespace.
func parseDelimiter(s string) (rune, error) {
	switch s {
	case "", "whitespace", "ws":
		return 0, nil
	case `\t`, "tab":
		return '\t', nil
	}
	r := []rune(s)
	if len(r) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
	}
	return r[0], nil
}

func main() {
	def := render.DefaultOptions()

	in := flag.String("in", defaultInput, "Input trace (time and cwnd columns; .gz/.zst/.bz2 decompressed)")
	out := flag.String("out", defaultOutput, "Output PNG path")
	backend := flag.String("backend", string(def.Backend), "Chart engine (gochart|gonum)")
	widthIn := flag.Float64("width-in", def.WidthIn, "Canvas width in inches")
	heightIn := flag.Float64("height-in", def.HeightIn, "Canvas height in inches")
	dpi := flag.Float64("dpi", def.DPI, "Output resolution in dots per inch")
	title := flag.String("title", def.Title, "Chart title")
	xLabel := flag.String("xlabel", def.XLabel, "X axis title")
	yLabel := flag.String("ylabel", def.YLabel, "Y axis title")
	legend := flag.String("legend", def.Legend, "Legend label")
	caption := flag.String("caption", "", "Optional footnote drawn in the bottom-left corner")
	timeCol := flag.Int("time-col", def.Load.TimeColumn, "0-based column holding time")
	valueCol := flag.Int("value-col", def.Load.ValueColumn, "0-based column holding the congestion window")
	skipRows := flag.Int("skip-rows", 0, "Number of leading lines to ignore (e.g. a header)")
	delimiter := flag.String("delimiter", "", "Column delimiter (default: any whitespace)")
	comment := flag.String("comment", cwnd.DefaultComment, "Comment marker")
	strict := flag.Bool("strict", false, "Fail when timestamps go backwards instead of plotting them in file order")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Parse()

	cwnd.SetLogLevel(*logLevel)

	b, err := render.ParseBackend(*backend)
	if err != nil {
		cwnd.Errorf("%v", err)
		os.Exit(2)
	}
	delim, err := parseDelimiter(*delimiter)
	if err != nil {
		cwnd.Errorf("%v", err)
		os.Exit(2)
	}

	opts := def
	opts.Backend = b
	opts.WidthIn = *widthIn
	opts.HeightIn = *heightIn
	opts.DPI = *dpi
	opts.Title = *title
	opts.XLabel = *xLabel
	opts.YLabel = *yLabel
	opts.Legend = *legend
	opts.Caption = strings.TrimSpace(*caption)
	opts.Strict = *strict
	opts.Load = cwnd.LoadOptions{
		Delimiter:   delim,
		Comment:     *comment,
		SkipRows:    *skipRows,
		TimeColumn:  *timeCol,
		ValueColumn: *valueCol,
	}

	if _, err := render.RenderFile(*in, *out, opts); err != nil {
		cwnd.Errorf("%v", err)
		os.Exit(1)
	}
}
