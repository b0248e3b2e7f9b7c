package render

import (
	"bytes"
	"errors"
	"image"
	_ "image/png" // register PNG decoder
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/suhuimengx/cwndplot/src/cwnd"
)

const exampleTrace = "0.0 1000.0\n1.0 1460.0\n2.0 2920.0\n"

func writeTrace(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write trace: %v", err)
	}
	return p
}

// smallOptions keeps rendering fast while exercising the same code paths.
func smallOptions(b Backend) Options {
	o := DefaultOptions()
	o.Backend = b
	o.WidthIn = 4
	o.HeightIn = 3
	o.DPI = 100
	return o
}

func decodeFile(t *testing.T, path string) (image.Image, []byte) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img, data
}

func exampleSeries() cwnd.Series {
	return cwnd.Series{{Time: 0, Value: 1000}, {Time: 1, Value: 1460}, {Time: 2, Value: 2920}}
}

func TestBuildChartPlotsExactValues(t *testing.T) {
	ch := buildChart(exampleSeries(), DefaultOptions())
	if len(ch.Series) != 1 {
		t.Fatalf("expected one series, got %d", len(ch.Series))
	}
	cs, ok := ch.Series[0].(chart.ContinuousSeries)
	if !ok {
		t.Fatalf("unexpected series type %T", ch.Series[0])
	}
	if diff := cmp.Diff([]float64{0, 1, 2}, cs.XValues); diff != "" {
		t.Fatalf("x values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1000, 1460, 2920}, cs.YValues); diff != "" {
		t.Fatalf("y values (-want +got):\n%s", diff)
	}
	if cs.GetName() != "Congestion Window" {
		t.Fatalf("legend label %q", cs.GetName())
	}
	if cs.Style.StrokeWidth <= 0 || cs.Style.DotWidth <= 0 {
		t.Fatalf("expected line with markers, got stroke=%v dot=%v", cs.Style.StrokeWidth, cs.Style.DotWidth)
	}
}

func TestBuildChartPresentation(t *testing.T) {
	ch := buildChart(exampleSeries(), DefaultOptions())
	if ch.Title != "Congestion Window Over Time" {
		t.Errorf("title %q", ch.Title)
	}
	if ch.XAxis.Name != "Time (s)" || ch.YAxis.Name != "Congestion Window (bytes)" {
		t.Errorf("axis titles %q / %q", ch.XAxis.Name, ch.YAxis.Name)
	}
	if ch.Width != 4200 || ch.Height != 1800 || ch.DPI != 300 {
		t.Errorf("canvas %dx%d@%v", ch.Width, ch.Height, ch.DPI)
	}
	if len(ch.XAxis.GridLines) == 0 || len(ch.YAxis.GridLines) == 0 {
		t.Errorf("expected grid lines on both axes")
	}
	if a := ch.XAxis.GridMajorStyle.StrokeColor.A; a == 0 || a == 255 {
		t.Errorf("expected translucent grid, alpha=%d", a)
	}
	if len(ch.XAxis.GridMajorStyle.StrokeDashArray) == 0 {
		t.Errorf("expected dashed grid")
	}
	if len(ch.Elements) != 1 {
		t.Errorf("expected legend element, got %d elements", len(ch.Elements))
	}
	for _, rng := range []*chart.ContinuousRange{ch.XAxis.Range.(*chart.ContinuousRange), ch.YAxis.Range.(*chart.ContinuousRange)} {
		if !(rng.Max > rng.Min) {
			t.Errorf("degenerate range [%v,%v]", rng.Min, rng.Max)
		}
	}
	xr := ch.XAxis.Range.(*chart.ContinuousRange)
	if xr.Min > 0 || xr.Max < 2 {
		t.Errorf("x range [%v,%v] does not cover data", xr.Min, xr.Max)
	}
}

func TestBuildGonumPlotPlotsExactValues(t *testing.T) {
	p, xys, err := buildGonumPlot(exampleSeries(), DefaultOptions())
	if err != nil {
		t.Fatalf("buildGonumPlot: %v", err)
	}
	var xs, ys []float64
	for _, pt := range xys {
		xs = append(xs, pt.X)
		ys = append(ys, pt.Y)
	}
	if diff := cmp.Diff([]float64{0, 1, 2}, xs); diff != "" {
		t.Fatalf("x values (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1000, 1460, 2920}, ys); diff != "" {
		t.Fatalf("y values (-want +got):\n%s", diff)
	}
	if p.Title.Text != "Congestion Window Over Time" || p.X.Label.Text != "Time (s)" || p.Y.Label.Text != "Congestion Window (bytes)" {
		t.Fatalf("unexpected labels %q %q %q", p.Title.Text, p.X.Label.Text, p.Y.Label.Text)
	}
}

func TestRenderFileDefaultCanvas(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.data", exampleTrace)
	out := filepath.Join(dir, "cwnd.png")

	a, err := RenderFile(in, out, DefaultOptions())
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if a.Points != 3 || a.Width != 4200 || a.Height != 1800 {
		t.Fatalf("unexpected artifact: %+v", a)
	}
	img, data := decodeFile(t, out)
	if b := img.Bounds(); b.Dx() != 4200 || b.Dy() != 1800 {
		t.Fatalf("image size %dx%d want 4200x1800", b.Dx(), b.Dy())
	}
	if a.Bytes != len(data) {
		t.Fatalf("artifact bytes %d != file size %d", a.Bytes, len(data))
	}
	dpi, ok := readDPI(data)
	if !ok || math.Abs(dpi-300) > 0.01 {
		t.Fatalf("dpi=%v ok=%v want 300", dpi, ok)
	}
}

func TestRenderFileBackends(t *testing.T) {
	for _, b := range []Backend{BackendGoChart, BackendGonum} {
		t.Run(string(b), func(t *testing.T) {
			dir := t.TempDir()
			in := writeTrace(t, dir, "cwnd.data", exampleTrace)
			out := filepath.Join(dir, "cwnd.png")
			opts := smallOptions(b)
			if _, err := RenderFile(in, out, opts); err != nil {
				t.Fatalf("RenderFile: %v", err)
			}
			img, data := decodeFile(t, out)
			w, h := opts.PixelSize()
			if bb := img.Bounds(); bb.Dx() != w || bb.Dy() != h {
				t.Fatalf("image size %dx%d want %dx%d", bb.Dx(), bb.Dy(), w, h)
			}
			if dpi, ok := readDPI(data); !ok || math.Abs(dpi-100) > 0.01 {
				t.Fatalf("dpi=%v ok=%v want 100", dpi, ok)
			}
			if !hasColor(img, func(r, g, b uint32) bool { return b > 0xe000 && r < 0x4000 && g < 0x4000 }) {
				t.Fatalf("expected blue line pixels in the chart")
			}
		})
	}
}

func hasColor(img image.Image, match func(r, g, b uint32) bool) bool {
	bb := img.Bounds()
	for y := bb.Min.Y; y < bb.Max.Y; y++ {
		for x := bb.Min.X; x < bb.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if match(r, g, b) {
				return true
			}
		}
	}
	return false
}

func TestRenderFileSinglePointAndConstantSeries(t *testing.T) {
	for name, trace := range map[string]string{
		"single":   "0.5 1460\n",
		"constant": "0 1460\n1 1460\n2 1460\n",
	} {
		for _, b := range []Backend{BackendGoChart, BackendGonum} {
			t.Run(name+"/"+string(b), func(t *testing.T) {
				dir := t.TempDir()
				in := writeTrace(t, dir, "cwnd.data", trace)
				out := filepath.Join(dir, "cwnd.png")
				if _, err := RenderFile(in, out, smallOptions(b)); err != nil {
					t.Fatalf("RenderFile: %v", err)
				}
				if fi, err := os.Stat(out); err != nil || fi.Size() == 0 {
					t.Fatalf("expected non-empty output, stat err=%v", err)
				}
			})
		}
	}
}

func TestRenderFileDeterministic(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.data", exampleTrace)
	outA := filepath.Join(dir, "a.png")
	outB := filepath.Join(dir, "b.png")
	opts := smallOptions(BackendGoChart)
	if _, err := RenderFile(in, outA, opts); err != nil {
		t.Fatalf("RenderFile a: %v", err)
	}
	if _, err := RenderFile(in, outB, opts); err != nil {
		t.Fatalf("RenderFile b: %v", err)
	}
	_, a := decodeFile(t, outA)
	_, b := decodeFile(t, outB)
	if !bytes.Equal(a, b) {
		t.Fatalf("identical input rendered differently (%d vs %d bytes)", len(a), len(b))
	}
}

func TestRenderFileFailuresLeaveOutputUntouched(t *testing.T) {
	cases := []struct {
		name  string
		trace string
		want  error
	}{
		{"empty", "", ErrParse},
		{"one column", "0\n1\n", ErrParse},
		{"ragged", "0 1\n1 2 3\n", ErrParse},
		{"non numeric", "0 1\n1 x\n", ErrParse},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			in := writeTrace(t, dir, "cwnd.data", tc.trace)

			fresh := filepath.Join(dir, "fresh.png")
			if _, err := RenderFile(in, fresh, smallOptions(BackendGoChart)); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if _, err := os.Stat(fresh); !os.IsNotExist(err) {
				t.Fatalf("output must not be created on failure, stat err=%v", err)
			}

			existing := filepath.Join(dir, "existing.png")
			if err := os.WriteFile(existing, []byte("previous"), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := RenderFile(in, existing, smallOptions(BackendGoChart)); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if b, _ := os.ReadFile(existing); string(b) != "previous" {
				t.Fatalf("existing output was modified")
			}
			assertNoTempFiles(t, dir)
		})
	}
}

func TestRenderFileMissingInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "cwnd.png")
	_, err := RenderFile(filepath.Join(dir, "nope.data"), out, smallOptions(BackendGoChart))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Fatalf("output must not be created, stat err=%v", err)
	}
}

func TestRenderFileUnwritableOutput(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.data", exampleTrace)

	_, err := RenderFile(in, filepath.Join(dir, "no-such-dir", "cwnd.png"), smallOptions(BackendGoChart))
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite for missing directory, got %v", err)
	}

	// The output path names an existing directory: rename cannot replace it.
	target := filepath.Join(dir, "taken")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	_, err = RenderFile(in, target, smallOptions(BackendGoChart))
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite for directory target, got %v", err)
	}
	assertNoTempFiles(t, dir)
}

func TestRenderFileOutOfOrder(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.data", "0 1000\n2 2000\n1 1500\n")
	out := filepath.Join(dir, "cwnd.png")

	opts := smallOptions(BackendGoChart)
	a, err := RenderFile(in, out, opts)
	if err != nil {
		t.Fatalf("lenient mode must plot out-of-order samples: %v", err)
	}
	if a.Points != 3 {
		t.Fatalf("points=%d want 3", a.Points)
	}

	opts.Strict = true
	strictOut := filepath.Join(dir, "strict.png")
	if _, err := RenderFile(in, strictOut, opts); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse in strict mode, got %v", err)
	}
	if _, err := os.Stat(strictOut); !os.IsNotExist(err) {
		t.Fatalf("strict failure must not write output")
	}
}

func TestRenderFileColumnsAndHeader(t *testing.T) {
	dir := t.TempDir()
	in := writeTrace(t, dir, "cwnd.data", "Time \t oldCwnd \t newCwnd\n0 536 1072\n1 1072 2144\n")
	opts := smallOptions(BackendGoChart)
	opts.Load.SkipRows = 1
	opts.Load.ValueColumn = 2
	a, err := RenderFile(in, filepath.Join(dir, "cwnd.png"), opts)
	if err != nil {
		t.Fatalf("RenderFile: %v", err)
	}
	if a.Points != 2 {
		t.Fatalf("points=%d want 2", a.Points)
	}

	opts.Load.ValueColumn = 5
	if _, err := RenderFile(in, filepath.Join(dir, "bad.png"), opts); !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for missing column, got %v", err)
	}
}

func TestRenderRejectsInvalidOptions(t *testing.T) {
	s := exampleSeries()
	bad := []func(*Options){
		func(o *Options) { o.DPI = 0 },
		func(o *Options) { o.WidthIn = -1 },
		func(o *Options) { o.Backend = "svg" },
		func(o *Options) { o.Backend = BackendGonum; o.DPI = 72.5 },
		func(o *Options) { o.WidthIn, o.HeightIn = 0.01, 0.01 },
	}
	for i, mut := range bad {
		o := smallOptions(BackendGoChart)
		mut(&o)
		if _, err := Render(s, o); err == nil {
			t.Errorf("case %d: expected error for %+v", i, o)
		}
	}
	if _, err := Render(nil, smallOptions(BackendGoChart)); !errors.Is(err, ErrParse) {
		t.Errorf("expected ErrParse for empty series, got %v", err)
	}
}

func TestParseBackend(t *testing.T) {
	for in, want := range map[string]Backend{"": BackendGoChart, "GoChart": BackendGoChart, "gonum": BackendGonum} {
		got, err := ParseBackend(in)
		if err != nil || got != want {
			t.Errorf("ParseBackend(%q)=%q,%v want %q", in, got, err, want)
		}
	}
	if _, err := ParseBackend("matplotlib"); err == nil {
		t.Errorf("expected error for unknown backend")
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Fatalf("leftover temp file %s", e.Name())
		}
	}
}
