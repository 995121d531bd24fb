// Package blast parses headerless BLAST tabular results.
//
// Columns are assigned by position in the order
//
//	qseqid qstart qend mismatch gapopen pident nident length qlen
//
// which is what `-outfmt "6 qseqid qstart qend mismatch gapopen pident
// nident length qlen"` produces. The query identifier is validated for
// presence but not retained.
package blast

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/banshee-data/seqstats/internal/fsutil"
)

// Columns lists the canonical column names in positional order.
var Columns = []string{"qseqid", "qstart", "qend", "mismatch", "gapopen", "pident", "nident", "length", "qlen"}

// ErrEmptyTable is returned when a table has no rows.
var ErrEmptyTable = errors.New("blast: table has no rows")

// ErrNotFinite is returned for NaN or infinite identity values.
var ErrNotFinite = errors.New("value is not finite")

// Hit is one alignment row.
type Hit struct {
	QStart   int     `json:"qstart"`
	QEnd     int     `json:"qend"`
	Mismatch int     `json:"mismatch"`
	GapOpen  int     `json:"gapopen"`
	PIdent   float64 `json:"pident"`
	NIdent   int     `json:"nident"`
	Length   int     `json:"length"`
	QLen     int     `json:"qlen"`
}

// Table is the ordered set of hits from one results file.
type Table struct {
	Hits []Hit
}

// Len returns the number of hits.
func (t *Table) Len() int { return len(t.Hits) }

// Column extracts one numeric column as float64 values.
func (t *Table) Column(get func(Hit) float64) []float64 {
	out := make([]float64, len(t.Hits))
	for i, h := range t.Hits {
		out[i] = get(h)
	}
	return out
}

// RowError identifies the offending row (1-based) and, when known, column.
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("blast: row %d: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("blast: row %d column %q: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// ParseOptions controls field splitting.
type ParseOptions struct {
	// Comma is the field separator. Zero means ','.
	Comma rune
}

// Parse reads every row of r into a Table. It fails on the first malformed
// row and on empty input.
func Parse(r io.Reader, opts ParseOptions) (*Table, error) {
	cr := csv.NewReader(r)
	cr.Comma = opts.Comma
	if cr.Comma == 0 {
		cr.Comma = ','
	}
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true
	cr.Comment = '#'
	if cr.Comma == '\t' {
		cr.LazyQuotes = true
	}

	t := &Table{}
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &RowError{Row: row, Err: err}
		}
		hit, err := parseHit(fields)
		if err != nil {
			var re *RowError
			if errors.As(err, &re) {
				re.Row = row
				return nil, re
			}
			return nil, &RowError{Row: row, Err: err}
		}
		t.Hits = append(t.Hits, hit)
	}

	if len(t.Hits) == 0 {
		return nil, ErrEmptyTable
	}
	return t, nil
}

func parseHit(fields []string) (Hit, error) {
	if len(fields) != len(Columns) {
		return Hit{}, fmt.Errorf("expected %d columns, got %d", len(Columns), len(fields))
	}

	var h Hit
	ints := []*int{nil, &h.QStart, &h.QEnd, &h.Mismatch, &h.GapOpen, nil, &h.NIdent, &h.Length, &h.QLen}
	for i, dst := range ints {
		if dst == nil {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(fields[i]))
		if err != nil {
			return Hit{}, &RowError{Column: Columns[i], Err: err}
		}
		*dst = v
	}

	pident, err := strconv.ParseFloat(strings.TrimSpace(fields[5]), 64)
	if err != nil {
		return Hit{}, &RowError{Column: Columns[5], Err: err}
	}
	if math.IsNaN(pident) || math.IsInf(pident, 0) {
		return Hit{}, &RowError{Column: Columns[5], Err: ErrNotFinite}
	}
	h.PIdent = pident
	return h, nil
}

// ParseFile opens path on fsys and parses it. The file is closed on every
// return path.
func ParseFile(fsys fsutil.FileSystem, path string, opts ParseOptions) (*Table, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blast: open %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ParseComma maps a flag or config value to a separator rune. "tab" and
// "\t" select a tab; any other value must be a single character.
func ParseComma(s string) (rune, error) {
	switch s {
	case "":
		return ',', nil
	case "tab", `\t`, "\t":
		return '\t', nil
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, fmt.Errorf("separator must be a single character or \"tab\", got %q", s)
	}
	if runes[0] == '\n' || runes[0] == '\r' || runes[0] == '"' || runes[0] == '#' {
		return 0, fmt.Errorf("invalid separator %q", s)
	}
	return runes[0], nil
}
