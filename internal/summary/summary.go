// Package summary derives per-file alignment statistics from a BLAST
// results table and the query sequences that produced it.
package summary

import (
	"errors"
	"fmt"

	"github.com/banshee-data/seqstats/internal/blast"
	"github.com/banshee-data/seqstats/internal/fasta"
	"github.com/banshee-data/seqstats/internal/stats"
)

var (
	// ErrEmptyTable is returned when the table has no hits.
	ErrEmptyTable = errors.New("summary: alignment table is empty")
	// ErrNoRecords is returned when the query file has no records.
	ErrNoRecords = errors.New("summary: query file has no records")
	// ErrZeroDenominator is returned instead of dividing by zero.
	ErrZeroDenominator = errors.New("summary: zero denominator")
)

// Summary is the flat set of statistics for one table/query-file pair.
// Values keep full precision; rounding is a presentation concern.
type Summary struct {
	FileID string `json:"file_id"`

	NumHits     int `json:"num_hits"`
	NumQSeqs    int `json:"num_qseqs"`
	TotalSeqLen int `json:"total_seq_len"`

	AveAlnIdent float64 `json:"ave_aln_ident"`
	MedAlnIdent float64 `json:"med_aln_ident"`
	MinAlnIdent float64 `json:"min_aln_ident"`
	MaxAlnIdent float64 `json:"max_aln_ident"`

	AveAlnLen float64 `json:"ave_aln_len"`
	MedAlnLen float64 `json:"med_aln_len"`
	MinAlnLen float64 `json:"min_aln_len"`
	MaxAlnLen float64 `json:"max_aln_len"`

	AveQSeqRet   float64 `json:"ave_qseqret"`
	PercAln      float64 `json:"perc_aln"`
	AveQSeqAll   float64 `json:"ave_qseqall"`
	AveHitFreq   float64 `json:"ave_hitfreq"`
	AveQSeqIdent float64 `json:"ave_qseq_ident"`

	// TotalAlignedApprox is mean(ident) * mean(qlen) * hits, an estimate
	// of aligned query bases.
	TotalAlignedApprox float64 `json:"total_aligned_approx"`
	// TotalAlignedExact is the per-hit sum of ident * qlen.
	TotalAlignedExact float64 `json:"total_aligned_exact"`
	// OverallIdent is TotalAlignedExact as a percentage of all query
	// bases. It is nil when the query records hold no bases.
	OverallIdent *float64 `json:"overall_ident,omitempty"`
}

// Ident is the identical base count relative to the longer of the
// alignment and the query, so a short alignment over a long query does not
// inflate identity.
func Ident(h blast.Hit) (float64, error) {
	denom := h.QLen
	if h.Length > h.QLen {
		denom = h.Length
	}
	if denom <= 0 {
		return 0, fmt.Errorf("%w: alignment length %d and query length %d", ErrZeroDenominator, h.Length, h.QLen)
	}
	return float64(h.NIdent) / float64(denom), nil
}

// Derive computes the Summary for table and its query records. Every ratio
// checks its divisor first.
func Derive(table *blast.Table, records []fasta.Record) (*Summary, error) {
	if table == nil || table.Len() == 0 {
		return nil, ErrEmptyTable
	}
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	idents := make([]float64, table.Len())
	var exact float64
	for i, h := range table.Hits {
		id, err := Ident(h)
		if err != nil {
			return nil, fmt.Errorf("hit %d: %w", i+1, err)
		}
		idents[i] = id
		exact += id * float64(h.QLen)
	}

	pident, err := stats.Describe(table.Column(func(h blast.Hit) float64 { return h.PIdent }))
	if err != nil {
		return nil, fmt.Errorf("pident: %w", err)
	}
	alnLen, err := stats.Describe(table.Column(func(h blast.Hit) float64 { return float64(h.Length) }))
	if err != nil {
		return nil, fmt.Errorf("length: %w", err)
	}
	aveQLen := stats.Mean(table.Column(func(h blast.Hit) float64 { return float64(h.QLen) }))
	aveIdent := stats.Mean(idents)

	s := &Summary{
		NumHits:     table.Len(),
		NumQSeqs:    len(records),
		TotalSeqLen: fasta.TotalLength(records),

		AveAlnIdent: pident.Mean,
		MedAlnIdent: pident.Median,
		MinAlnIdent: pident.Min,
		MaxAlnIdent: pident.Max,

		AveAlnLen: alnLen.Mean,
		MedAlnLen: alnLen.Median,
		MinAlnLen: alnLen.Min,
		MaxAlnLen: alnLen.Max,

		AveQSeqRet:   aveQLen,
		AveQSeqIdent: aveIdent * 100,

		TotalAlignedApprox: aveIdent * aveQLen * float64(table.Len()),
		TotalAlignedExact:  exact,
	}

	if aveQLen == 0 {
		return nil, fmt.Errorf("%w: mean query length of returned hits is 0", ErrZeroDenominator)
	}
	s.PercAln = s.AveAlnLen / aveQLen * 100

	n := float64(s.NumQSeqs)
	s.AveQSeqAll = float64(s.TotalSeqLen) / n
	s.AveHitFreq = float64(s.NumHits) / n * 100

	if s.TotalSeqLen > 0 {
		overall := exact / float64(s.TotalSeqLen) * 100
		s.OverallIdent = &overall
	}

	return s, nil
}
