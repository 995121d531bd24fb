// Package contig summarises assembly contiguity from sequence lengths.
package contig

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Op selects the comparison a Band applies to each length.
type Op int

const (
	// Below counts lengths strictly less than the limit.
	Below Op = iota
	// Above counts lengths strictly greater than the limit.
	Above
)

func (o Op) String() string {
	if o == Above {
		return ">"
	}
	return "<"
}

// MarshalJSON encodes the operator as "<" or ">". json.Marshal escapes
// both as HTML; encoders with SetEscapeHTML(false) keep them literal.
func (o Op) MarshalJSON() ([]byte, error) {
	return []byte(`"` + o.String() + `"`), nil
}

// UnmarshalJSON accepts "<", ">", "below" or "above".
func (o *Op) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	op, err := ParseOp(s)
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// ParseOp parses a band operator.
func ParseOp(s string) (Op, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "<", "below", "under":
		return Below, nil
	case ">", "above", "over":
		return Above, nil
	}
	return 0, fmt.Errorf("unknown band operator %q", s)
}

// Band is one threshold. Bands may overlap.
type Band struct {
	Label string `json:"label"`
	Op    Op     `json:"op"`
	Limit int    `json:"limit"`
	// Percent and Count select which report lines the band produces.
	Percent bool `json:"percent"`
	Count   bool `json:"count"`
}

// Match reports whether length falls in the band.
func (b Band) Match(length int) bool {
	if b.Op == Above {
		return length > b.Limit
	}
	return length < b.Limit
}

// Validate checks the band is usable.
func (b Band) Validate() error {
	if b.Label == "" {
		return errors.New("band label is empty")
	}
	if b.Limit < 0 {
		return fmt.Errorf("band %s: negative limit %d", b.Label, b.Limit)
	}
	if b.Op != Below && b.Op != Above {
		return fmt.Errorf("band %s: invalid operator %d", b.Label, b.Op)
	}
	if !b.Percent && !b.Count {
		return fmt.Errorf("band %s: reports neither percent nor count", b.Label)
	}
	return nil
}

// DefaultBands returns the standard contig length thresholds.
func DefaultBands() []Band {
	return []Band{
		{Label: "seqs_under_50k", Op: Below, Limit: 50000, Percent: true},
		{Label: "seqs_under_250k", Op: Below, Limit: 250000, Percent: true},
		{Label: "seqs_over_250k", Op: Above, Limit: 250000, Percent: true},
		{Label: "seqs_over_300k", Op: Above, Limit: 300000, Percent: true, Count: true},
		{Label: "seqs_over_400k", Op: Above, Limit: 400000, Count: true},
	}
}

// ErrZeroDenominator is returned when no denominator is available for
// percentages.
var ErrZeroDenominator = errors.New("contig: percentage denominator is zero")

// Options configures Analyze.
type Options struct {
	// Bands defaults to DefaultBands when empty.
	Bands []Band
	// Denominator for percentages. Zero uses the number of lengths.
	Denominator int
}

// BandResult holds one band's tallies.
type BandResult struct {
	Band    Band    `json:"band"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// BucketSummary is the result of Analyze.
type BucketSummary struct {
	Bands       []BandResult `json:"bands"`
	Denominator int          `json:"denominator"`
	Records     int          `json:"records"`
	Assembly    *Assembly    `json:"assembly,omitempty"`
}

// Result returns the tallies for the band with label.
func (s *BucketSummary) Result(label string) (BandResult, bool) {
	for _, r := range s.Bands {
		if r.Band.Label == label {
			return r, true
		}
	}
	return BandResult{}, false
}

// Analyze counts lengths per band and converts counts to percentages of
// the effective denominator.
func Analyze(lengths []int, opts Options) (*BucketSummary, error) {
	bands := opts.Bands
	if len(bands) == 0 {
		bands = DefaultBands()
	}
	for _, b := range bands {
		if err := b.Validate(); err != nil {
			return nil, fmt.Errorf("contig: %w", err)
		}
	}

	denom := opts.Denominator
	if denom < 0 {
		return nil, fmt.Errorf("contig: negative denominator %d", denom)
	}
	if denom == 0 {
		denom = len(lengths)
	}
	if denom == 0 {
		return nil, ErrZeroDenominator
	}

	out := &BucketSummary{
		Bands:       make([]BandResult, len(bands)),
		Denominator: denom,
		Records:     len(lengths),
	}
	for i, b := range bands {
		out.Bands[i].Band = b
	}
	for _, l := range lengths {
		for i := range out.Bands {
			if out.Bands[i].Band.Match(l) {
				out.Bands[i].Count++
			}
		}
	}
	for i := range out.Bands {
		out.Bands[i].Percent = float64(out.Bands[i].Count) / float64(denom) * 100
	}
	return out, nil
}
