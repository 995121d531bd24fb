package report

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"

	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/summary"
)

// CSVHeader is the accumulation file's column set.
var CSVHeader = []string{
	"file_id", "aln_ident", "qseq_ident", "aln_len", "qseqret",
	"qseqall", "num_qseqs", "num_hits", "hitfreq", "overall_ident",
}

// CSVAccumulator appends one row per processed pair to a CSV file shared
// across runs. The header is written only when the file is new or empty.
type CSVAccumulator struct {
	path string
	wc   io.WriteCloser
	w    *csv.Writer
	rows int
}

// OpenCSVAccumulator opens path for appending. An existing non-empty file
// must start with CSVHeader.
func OpenCSVAccumulator(fsys fsutil.FileSystem, path string) (*CSVAccumulator, error) {
	needHeader := false
	info, err := fsys.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		needHeader = true
	case err != nil:
		return nil, fmt.Errorf("report: stat %s: %w", path, err)
	case info.Size() == 0:
		needHeader = true
	default:
		if err := checkHeader(fsys, path); err != nil {
			return nil, err
		}
	}

	wc, err := fsys.Append(path)
	if err != nil {
		return nil, fmt.Errorf("report: open %s: %w", path, err)
	}
	acc := &CSVAccumulator{path: path, wc: wc, w: csv.NewWriter(wc)}
	if needHeader {
		if err := acc.w.Write(CSVHeader); err != nil {
			wc.Close()
			return nil, fmt.Errorf("report: write header to %s: %w", path, err)
		}
		acc.w.Flush()
		if err := acc.w.Error(); err != nil {
			wc.Close()
			return nil, fmt.Errorf("report: write header to %s: %w", path, err)
		}
	}
	return acc, nil
}

func checkHeader(fsys fsutil.FileSystem, path string) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("report: open %s: %w", path, err)
	}
	defer f.Close()

	first, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("report: read %s: %w", path, err)
	}
	first = strings.TrimRight(first, "\r\n")
	if first != strings.Join(CSVHeader, ",") {
		return fmt.Errorf("report: %s has an unexpected header %q", path, first)
	}
	return nil
}

// optF4 leaves the field empty for an unset metric.
func optF4(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 4, 64)
}

// Row converts s to CSV fields in CSVHeader order.
func Row(s *summary.Summary) []string {
	f4 := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
	return []string{
		s.FileID,
		f4(s.AveAlnIdent),
		f4(s.AveQSeqIdent),
		f4(s.AveAlnLen),
		f4(s.AveQSeqRet),
		f4(s.AveQSeqAll),
		strconv.Itoa(s.NumQSeqs),
		strconv.Itoa(s.NumHits),
		f4(s.AveHitFreq),
		optF4(s.OverallIdent),
	}
}

// Append writes one row for s and flushes it.
func (a *CSVAccumulator) Append(s *summary.Summary) error {
	if err := a.w.Write(Row(s)); err != nil {
		return fmt.Errorf("report: append to %s: %w", a.path, err)
	}
	a.w.Flush()
	if err := a.w.Error(); err != nil {
		return fmt.Errorf("report: append to %s: %w", a.path, err)
	}
	a.rows++
	return nil
}

// Rows returns how many rows this accumulator appended.
func (a *CSVAccumulator) Rows() int { return a.rows }

// Close flushes and closes the file.
func (a *CSVAccumulator) Close() error {
	a.w.Flush()
	werr := a.w.Error()
	cerr := a.wc.Close()
	return errors.Join(werr, cerr)
}
