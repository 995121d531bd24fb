package contig

import (
	"github.com/banshee-data/seqstats/internal/stats"
)

// Assembly holds whole-assembly contiguity figures.
type Assembly struct {
	Sequences int     `json:"sequences"`
	Total     int     `json:"total_bp"`
	Min       int     `json:"min_bp"`
	Max       int     `json:"max_bp"`
	Mean      float64 `json:"mean_bp"`
	N50       int     `json:"n50"`
	N90       int     `json:"n90"`
	AuN       float64 `json:"aun"`
}

// AssemblyStats computes Assembly for lengths. It returns nil for an empty
// input.
func AssemblyStats(lengths []int) *Assembly {
	if len(lengths) == 0 {
		return nil
	}
	a := &Assembly{Sequences: len(lengths), Min: lengths[0], Max: lengths[0]}
	for _, l := range lengths {
		a.Total += l
		a.Min = min(a.Min, l)
		a.Max = max(a.Max, l)
	}
	a.Mean = float64(a.Total) / float64(a.Sequences)
	a.N50 = stats.Nx(lengths, 50)
	a.N90 = stats.Nx(lengths, 90)
	a.AuN = stats.AuN(lengths)
	return a
}
