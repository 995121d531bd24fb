package batch

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/banshee-data/seqstats/internal/blast"
	"github.com/banshee-data/seqstats/internal/db"
	"github.com/banshee-data/seqstats/internal/fasta"
	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/logging"
	"github.com/banshee-data/seqstats/internal/report"
	"github.com/banshee-data/seqstats/internal/summary"
)

// Appender accumulates one summary per processed pair.
type Appender interface {
	Append(s *summary.Summary) error
}

// Inserter persists one summary record per processed pair.
type Inserter interface {
	Insert(rec *db.SummaryRecord) error
}

// Runner summarizes pairs sequentially.
type Runner struct {
	FS  fsutil.FileSystem
	Out io.Writer

	Comma rune
	Text  report.TextOptions
	// JSON writes one JSON document per pair instead of the text report.
	JSON bool

	// CSV and Store are optional sinks.
	CSV   Appender
	Store Inserter
	// RunID groups the records written to Store.
	RunID string
}

// Failure is one pair that could not be summarized.
type Failure struct {
	Pair Pair
	Err  error
}

// Result collects the outcome of a batch.
type Result struct {
	Summaries []*summary.Summary
	Failures  []Failure
	// Canceled is set when the context ended before every pair ran.
	Canceled bool
}

// Err joins every per-pair failure, or returns nil.
func (r Result) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

type pairReport struct {
	Pair
	Summary *summary.Summary `json:"summary"`
}

// Run processes pairs in order. A failing pair is logged and recorded in
// the result and the batch continues. Cancellation is checked between
// pairs.
func (r *Runner) Run(ctx context.Context, pairs []Pair) Result {
	var res Result
	for i, p := range pairs {
		if err := ctx.Err(); err != nil {
			logging.Opsf("batch canceled after %d of %d pairs: %v", i, len(pairs), err)
			res.Canceled = true
			break
		}
		s, err := r.runPair(p)
		if err != nil {
			logging.Opsf("error: %s: %v", p.Stem, err)
			res.Failures = append(res.Failures, Failure{Pair: p, Err: err})
			continue
		}
		res.Summaries = append(res.Summaries, s)
	}
	logging.Diagf("batch finished: %d summarized, %d failed", len(res.Summaries), len(res.Failures))
	return res
}

func (r *Runner) runPair(p Pair) (*summary.Summary, error) {
	comma := r.Comma
	if comma == 0 {
		comma = ','
	}
	table, err := blast.ParseFile(r.FS, p.Table, blast.ParseOptions{Comma: comma})
	if err != nil {
		return nil, err
	}
	records, err := fasta.ParseFile(r.FS, p.Records)
	if err != nil {
		return nil, err
	}
	logging.Diagf("%s: %d hits, %d query records", p.Stem, table.Len(), len(records))

	s, err := summary.Derive(table, records)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Table, err)
	}
	s.FileID = p.Stem

	if err := r.write(p, s); err != nil {
		return nil, fmt.Errorf("write report: %w", err)
	}
	if r.CSV != nil {
		if err := r.CSV.Append(s); err != nil {
			return nil, err
		}
	}
	if r.Store != nil {
		rec := &db.SummaryRecord{
			RunID:      r.RunID,
			TablePath:  p.Table,
			RecordPath: p.Records,
			Summary:    *s,
		}
		if err := r.Store.Insert(rec); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (r *Runner) write(p Pair, s *summary.Summary) error {
	if r.Out == nil {
		return nil
	}
	if r.JSON {
		return report.WriteJSON(r.Out, pairReport{Pair: p, Summary: s})
	}
	if _, err := fmt.Fprintf(r.Out, "<%s>\n<%s>\n", p.Table, p.Records); err != nil {
		return err
	}
	if err := report.WriteSummary(r.Out, s, r.Text); err != nil {
		return err
	}
	_, err := fmt.Fprintln(r.Out)
	return err
}
