// Package batch discovers alignment tables and their query record files in
// a directory, pairs them by file stem and summarizes each pair in turn.
package batch

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/logging"
)

// Pair is one alignment table and the record file holding its queries.
type Pair struct {
	Stem    string `json:"file_id"`
	Table   string `json:"table"`
	Records string `json:"records"`
}

// PairingError lists every file that could not be paired.
type PairingError struct {
	UnmatchedTables  []string
	UnmatchedRecords []string
	// Duplicates maps a stem to every file claiming it.
	Duplicates map[string][]string
}

func (e *PairingError) Error() string {
	var parts []string
	if len(e.UnmatchedTables) > 0 {
		parts = append(parts, "tables without records: "+strings.Join(e.UnmatchedTables, ", "))
	}
	if len(e.UnmatchedRecords) > 0 {
		parts = append(parts, "records without tables: "+strings.Join(e.UnmatchedRecords, ", "))
	}
	stems := make([]string, 0, len(e.Duplicates))
	for stem := range e.Duplicates {
		stems = append(stems, stem)
	}
	sort.Strings(stems)
	for _, stem := range stems {
		parts = append(parts, fmt.Sprintf("duplicate stem %q: %s", stem, strings.Join(e.Duplicates[stem], ", ")))
	}
	return "batch: pairing failed: " + strings.Join(parts, "; ")
}

// Discover lists the files in dir ending in tableExt and recordExt.
// Returned paths include dir and are sorted.
func Discover(fsys fsutil.FileSystem, dir, tableExt, recordExt string) (tables, records []string, err error) {
	if strings.EqualFold(tableExt, recordExt) {
		return nil, nil, fmt.Errorf("batch: table and record extensions are both %q", tableExt)
	}
	names, err := fsys.ReadDir(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("batch: list %s: %w", dir, err)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, ok := fsutil.TrimExt(name, tableExt); ok {
			tables = append(tables, filepath.Join(dir, name))
		} else if _, ok := fsutil.TrimExt(name, recordExt); ok {
			records = append(records, filepath.Join(dir, name))
		}
	}
	logging.Diagf("discovered %d %s tables and %d %s record files in %s", len(tables), tableExt, len(records), recordExt, dir)
	if len(tables) == 0 {
		logging.Opsf("warning: no %s tables found in %s", tableExt, dir)
	}
	if len(records) == 0 {
		logging.Opsf("warning: no %s record files found in %s", recordExt, dir)
	}
	return tables, records, nil
}

func stems(paths []string, ext string, dup map[string][]string) map[string]string {
	byStem := make(map[string]string, len(paths))
	for _, p := range paths {
		stem, _ := fsutil.TrimExt(filepath.Base(p), ext)
		if prev, ok := byStem[stem]; ok {
			if len(dup[stem]) == 0 {
				dup[stem] = append(dup[stem], prev)
			}
			dup[stem] = append(dup[stem], p)
			continue
		}
		byStem[stem] = p
	}
	return byStem
}

// MatchPairs matches tables to record files by stem, the base name without
// extension. Every file must pair with exactly one partner; otherwise a
// *PairingError names all offenders. Pairs are sorted by stem.
func MatchPairs(tables, records []string, tableExt, recordExt string) ([]Pair, error) {
	dup := make(map[string][]string)
	tableByStem := stems(tables, tableExt, dup)
	recordByStem := stems(records, recordExt, dup)

	perr := &PairingError{Duplicates: dup}
	var pairs []Pair
	for stem, table := range tableByStem {
		rec, ok := recordByStem[stem]
		if !ok {
			perr.UnmatchedTables = append(perr.UnmatchedTables, table)
			continue
		}
		pairs = append(pairs, Pair{Stem: stem, Table: table, Records: rec})
	}
	for stem, rec := range recordByStem {
		if _, ok := tableByStem[stem]; !ok {
			perr.UnmatchedRecords = append(perr.UnmatchedRecords, rec)
		}
	}

	if len(perr.UnmatchedTables) > 0 || len(perr.UnmatchedRecords) > 0 || len(dup) > 0 {
		sort.Strings(perr.UnmatchedTables)
		sort.Strings(perr.UnmatchedRecords)
		for stem := range dup {
			sort.Strings(dup[stem])
		}
		return nil, perr
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Stem < pairs[j].Stem })
	return pairs, nil
}
