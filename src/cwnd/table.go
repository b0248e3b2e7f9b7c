// Package cwnd loads congestion-window traces: whitespace separated numeric
// tables as written by simulator trace sinks, one sample per line.
//
// Loading follows the conventions of common numeric text loaders:
//   - blank lines are skipped,
//   - everything after the comment marker ('#' by default) is ignored,
//   - a fixed number of leading lines (headers) can be skipped,
//   - every data row must have the same number of columns.
//
// Files ending in .gz, .zst or .bz2 are decompressed transparently.
package cwnd

import (
	"bufio"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// DefaultComment is the comment marker used when LoadOptions.Comment is empty.
const DefaultComment = "#"

// maxLineBytes bounds a single trace line.
const maxLineBytes = 1 << 20

// Table is a rectangular numeric table. Every row has exactly Cols values.
type Table struct {
	Rows [][]float64
	Cols int
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Column returns a copy of column c.
func (t *Table) Column(c int) ([]float64, error) {
	if c < 0 || c >= t.Cols {
		return nil, fmt.Errorf("%w: column %d out of range (table has %d columns)", ErrParse, c, t.Cols)
	}
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r[c]
	}
	return out, nil
}

// LoadOptions controls how a trace file is tokenized and which columns form
// the series. Use DefaultLoadOptions as the starting point; the zero value
// selects column 0 for both axes.
type LoadOptions struct {
	// Delimiter separates columns. Zero means any run of whitespace.
	Delimiter rune
	// Comment starts a comment that runs to the end of the line.
	Comment string
	// SkipRows is the number of leading lines ignored before parsing.
	SkipRows int
	// TimeColumn and ValueColumn select the x and y columns.
	TimeColumn  int
	ValueColumn int
}

// DefaultLoadOptions returns the options for a plain "time cwnd" trace.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Comment: DefaultComment, TimeColumn: 0, ValueColumn: 1}
}

// LoadTable opens path (decompressing by extension) and parses it.
func LoadTable(path string, opts LoadOptions) (*Table, error) {
	defer TimeTrack(time.Now(), "load "+path)
	rc, err := openTrace(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	t, err := ParseTable(rc, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	Debugf("loaded %s: rows=%d cols=%d", path, t.Len(), t.Cols)
	return t, nil
}

// ParseTable reads a numeric table from r. It fails with ErrParse when a cell
// is not a finite number, when rows disagree on their width, or when the
// table has no rows or fewer than two columns.
func ParseTable(r io.Reader, opts LoadOptions) (*Table, error) {
	comment := opts.Comment
	if comment == "" {
		comment = DefaultComment
	}
	t := &Table{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if lineNo <= opts.SkipRows {
			continue
		}
		line := sc.Text()
		if i := strings.Index(line, comment); i >= 0 {
			line = line[:i]
		}
		fields := splitFields(line, opts.Delimiter)
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d column %d: cannot parse %q as a number", ErrParse, lineNo, i, f)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("%w: line %d column %d: non-finite value %q", ErrParse, lineNo, i, f)
			}
			row[i] = v
		}
		if len(t.Rows) == 0 {
			t.Cols = len(row)
		} else if len(row) != t.Cols {
			return nil, fmt.Errorf("%w: line %d has %d columns, expected %d", ErrParse, lineNo, len(row), t.Cols)
		}
		t.Rows = append(t.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: read after line %d: %v", ErrParse, lineNo, err)
	}
	if len(t.Rows) == 0 {
		return nil, fmt.Errorf("%w: empty table", ErrParse)
	}
	if t.Cols < 2 {
		return nil, fmt.Errorf("%w: need at least 2 columns, got %d", ErrParse, t.Cols)
	}
	return t, nil
}

// splitFields tokenizes one line. With a delimiter, empty cells are kept so
// that "1,,2" is reported as a parse error instead of silently shifting columns.
func splitFields(line string, delim rune) []string {
	if delim == 0 {
		return strings.Fields(line)
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}
	parts := strings.Split(line, string(delim))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

type multiCloser struct {
	io.Reader
	closers []func() error
}

func (m *multiCloser) Close() error {
	var first error
	for _, c := range m.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// openTrace opens path and layers a decompressor chosen by file extension.
func openTrace(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
		}
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		zr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: gzip: %v", ErrParse, path, err)
		}
		return &multiCloser{Reader: zr, closers: []func() error{zr.Close, f.Close}}, nil
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("%w: %s: zstd: %v", ErrParse, path, err)
		}
		return &multiCloser{Reader: zr, closers: []func() error{func() error { zr.Close(); return nil }, f.Close}}, nil
	case ".bz2":
		return &multiCloser{Reader: bzip2.NewReader(f), closers: []func() error{f.Close}}, nil
	default:
		return f, nil
	}
}
