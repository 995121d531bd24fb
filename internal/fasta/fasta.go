// Package fasta parses sequence-record files into ordered header/sequence
// pairs.
//
// Records start at a '>' marker. Anything before the first marker is
// preamble and is discarded. The first line of each record is its header;
// the remaining lines are joined with line breaks removed to form the
// sequence. A record with no line break has an empty sequence.
package fasta

import (
	"fmt"
	"io"
	"strings"

	"github.com/banshee-data/seqstats/internal/fsutil"
)

// Marker begins every record.
const Marker = '>'

// Record is one entry of a sequence-record file.
type Record struct {
	Header string
	Seq    string
}

// Len returns the sequence length in bases.
func (r Record) Len() int { return len(r.Seq) }

// Parse reads all of r and splits it into records.
func Parse(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("fasta: read: %w", err)
	}
	return ParseString(string(data)), nil
}

// ParseString splits content into records.
func ParseString(content string) []Record {
	fragments := strings.Split(content, string(Marker))
	if len(fragments) <= 1 {
		return []Record{}
	}

	records := make([]Record, 0, len(fragments)-1)
	for _, frag := range fragments[1:] {
		header, rest, _ := strings.Cut(frag, "\n")
		records = append(records, Record{
			Header: strings.TrimSuffix(header, "\r"),
			Seq:    stripLineBreaks(rest),
		})
	}
	return records
}

func stripLineBreaks(s string) string {
	if !strings.ContainsAny(s, "\r\n") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c != '\n' && c != '\r' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// ParseFile opens path on fsys and parses it. The file is closed on every
// return path.
func ParseFile(fsys fsutil.FileSystem, path string) ([]Record, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fasta: open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("fasta: %s: %w", path, err)
	}
	return records, nil
}

// Lengths returns the sequence length of each record, in input order.
func Lengths(records []Record) []int {
	lens := make([]int, len(records))
	for i, r := range records {
		lens[i] = r.Len()
	}
	return lens
}

// TotalLength sums the sequence lengths of records.
func TotalLength(records []Record) int {
	total := 0
	for _, r := range records {
		total += r.Len()
	}
	return total
}
