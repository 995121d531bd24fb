// Package report formats alignment and contiguity results for people
// (fixed-order text), for scripts (JSON) and for accumulation across runs
// (CSV).
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/banshee-data/seqstats/internal/contig"
	"github.com/banshee-data/seqstats/internal/summary"
)

// TextOptions controls optional lines in the alignment report.
type TextOptions struct {
	// Totals appends the aligned-base totals and overall identity.
	Totals bool
}

type line struct {
	label string
	value string
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// optF2 formats an optional metric; unset values print as "n/a".
func optF2(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return f2(*v)
}

// WriteSummary writes one "<label>: <value>" line per metric in a fixed
// order.
func WriteSummary(w io.Writer, s *summary.Summary, opts TextOptions) error {
	lines := []line{
		{"Ave aln ident", f2(s.AveAlnIdent)},
		{"Median aln ident", f2(s.MedAlnIdent)},
		{"Min aln ident", f2(s.MinAlnIdent)},
		{"Max aln ident", f2(s.MaxAlnIdent)},
		{"Ave aln len", f2(s.AveAlnLen)},
		{"Min aln len", f2(s.MinAlnLen)},
		{"Max aln len", f2(s.MaxAlnLen)},
		{"Ave Perc aln", f2(s.PercAln)},
		{"Median aln len", strconv.FormatFloat(s.MedAlnLen, 'f', -1, 64)},
		{"Ave qseqret len", f2(s.AveQSeqRet)},
		{"Ave qseqall len", f2(s.AveQSeqAll)},
		{"Num queryseqs", strconv.Itoa(s.NumQSeqs)},
		{"Num queryhits", strconv.Itoa(s.NumHits)},
		{"Ave hit freq", f2(s.AveHitFreq)},
		{"Ave qseq ident", f2(s.AveQSeqIdent)},
	}
	if opts.Totals {
		lines = append(lines,
			line{"Total aligned (exact)", f2(s.TotalAlignedExact)},
			line{"Total aligned (approx)", f2(s.TotalAlignedApprox)},
			line{"Overall ident", optF2(s.OverallIdent)},
		)
	}
	return writeLines(w, lines, 16)
}

func writeLines(w io.Writer, lines []line, width int) error {
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-*s: %s\n", width, l.label, l.value); err != nil {
			return err
		}
	}
	return nil
}

// WriteBuckets writes the band tallies in band order: a percentage line
// and/or a count line per band, followed by assembly figures when present.
func WriteBuckets(w io.Writer, s *contig.BucketSummary) error {
	var lines []line
	for _, r := range s.Bands {
		if r.Band.Percent {
			lines = append(lines, line{r.Band.Label, f2(r.Percent) + " %"})
		}
		if r.Band.Count {
			lines = append(lines, line{r.Band.Label, strconv.Itoa(r.Count)})
		}
	}
	if a := s.Assembly; a != nil {
		lines = append(lines,
			line{"sequences", strconv.Itoa(a.Sequences)},
			line{"total_bp", strconv.Itoa(a.Total)},
			line{"min_bp", strconv.Itoa(a.Min)},
			line{"max_bp", strconv.Itoa(a.Max)},
			line{"mean_bp", f2(a.Mean)},
			line{"n50", strconv.Itoa(a.N50)},
			line{"n90", strconv.Itoa(a.N90)},
			line{"aun", f2(a.AuN)},
		)
	}
	return writeLines(w, lines, 0)
}

// WriteJSON writes v as indented JSON followed by a newline. Band
// operators are written as literal "<" and ">".
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
