package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/suhuimengx/cwndplot/src/cwnd"
)

func bytesLabel(v float64) string {
	if v < 0 {
		return fmt.Sprintf("%.0f B", v)
	}
	return fmt.Sprintf("%s B (%s)", humanize.Commaf(v), humanize.IBytes(uint64(v)))
}

func main() {
	var file string
	var opts = cwnd.DefaultLoadOptions()
	flag.StringVar(&file, "file", "ScpsTpNewRenoConrruptionTest-cwnd.data", "Path to cwnd trace")
	flag.IntVar(&opts.TimeColumn, "time-col", opts.TimeColumn, "0-based column holding time")
	flag.IntVar(&opts.ValueColumn, "value-col", opts.ValueColumn, "0-based column holding the congestion window")
	flag.IntVar(&opts.SkipRows, "skip-rows", 0, "Number of leading lines to ignore")
	flag.Parse()
	cwnd.SetLogLevel("warn")

	s, err := cwnd.LoadSeries(file, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	st := cwnd.Summarize(s)
	fmt.Printf("Samples: %d\n", st.Count)
	fmt.Printf("Time: %.6gs .. %.6gs (%.6gs)\n", st.Start, st.End, st.Duration)
	fmt.Printf("Min: %s\n", bytesLabel(st.Min))
	fmt.Printf("Max: %s\n", bytesLabel(st.Max))
	fmt.Printf("Mean: %s\n", bytesLabel(st.Mean))
	fmt.Printf("StdDev: %s\n", bytesLabel(st.StdDev))
	fmt.Printf("Final: %s\n", bytesLabel(st.Final))
	fmt.Printf("Reductions: %d\n", st.Reductions)
	if st.OutOfOrder > 0 {
		fmt.Printf("Out of order: %d\n", st.OutOfOrder)
	}
}
