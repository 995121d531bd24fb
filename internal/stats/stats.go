// Package stats holds the numeric reductions used by the alignment and
// contiguity reports.
package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// ErrEmpty is returned by reductions that need at least one value.
var ErrEmpty = errors.New("stats: no values")

// Description summarises the location and range of a sample.
type Description struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Describe returns mean, median, min and max of xs. xs is not modified.
func Describe(xs []float64) (Description, error) {
	if len(xs) == 0 {
		return Description{}, ErrEmpty
	}
	return Description{
		Mean:   stat.Mean(xs, nil),
		Median: Median(xs),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}, nil
}

// Mean returns the arithmetic mean, or NaN for an empty slice.
func Mean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	return stat.Mean(xs, nil)
}

// Median returns the middle value of xs, averaging the two middle values
// when len(xs) is even. It returns NaN for an empty slice.
func Median(xs []float64) float64 {
	n := len(xs)
	if n == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// Float64s converts integer samples for use with the float reductions.
func Float64s(xs []int) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = float64(x)
	}
	return out
}

// Nx returns the length L such that sequences of length >= L cover at
// least x percent of the total. x=50 gives N50. Zero-length input yields 0.
func Nx(lengths []int, x float64) int {
	if len(lengths) == 0 || x <= 0 {
		return 0
	}
	sorted := append([]int(nil), lengths...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	total := 0
	for _, l := range sorted {
		total += l
	}
	if total == 0 {
		return 0
	}
	target := float64(total) * math.Min(x, 100) / 100
	cum := 0
	for _, l := range sorted {
		cum += l
		if float64(cum) >= target {
			return l
		}
	}
	return sorted[len(sorted)-1]
}

// AuN returns the area under the Nx curve: sum(len^2) / sum(len).
// It returns 0 when the total length is 0.
func AuN(lengths []int) float64 {
	var sum, sumSq float64
	for _, l := range lengths {
		f := float64(l)
		sum += f
		sumSq += f * f
	}
	if sum == 0 {
		return 0
	}
	return sumSq / sum
}

// KDE is a Gaussian kernel density estimate evaluated on an even grid.
type KDE struct {
	X         []float64
	Density   []float64
	Bandwidth float64
}

// kdeCut is how many bandwidths the grid extends past the data range.
const kdeCut = 3

// EstimateDensity computes a Gaussian KDE of values on points grid
// positions using Scott's rule for the bandwidth. A degenerate sample
// (single value or zero spread) falls back to a unit-scaled bandwidth so
// the result is still a finite bump.
func EstimateDensity(values []float64, points int) (*KDE, error) {
	if len(values) == 0 {
		return nil, ErrEmpty
	}
	if points < 2 {
		return nil, errors.New("stats: density grid needs at least 2 points")
	}

	bw := ScottBandwidth(values)
	lo := floats.Min(values) - kdeCut*bw
	hi := floats.Max(values) + kdeCut*bw

	xs := floats.Span(make([]float64, points), lo, hi)
	ys := make([]float64, points)

	kernel := distuv.Normal{Mu: 0, Sigma: bw}
	n := float64(len(values))
	for i, x := range xs {
		var sum float64
		for _, v := range values {
			sum += kernel.Prob(x - v)
		}
		ys[i] = sum / n
	}
	return &KDE{X: xs, Density: ys, Bandwidth: bw}, nil
}

// ScottBandwidth returns sigma * n^(-1/5), with a fallback for samples
// whose standard deviation is zero or undefined.
func ScottBandwidth(values []float64) float64 {
	n := float64(len(values))
	var sd float64
	if len(values) > 1 {
		sd = stat.StdDev(values, nil)
	}
	if sd > 0 && !math.IsNaN(sd) {
		return sd * math.Pow(n, -0.2)
	}
	scale := math.Abs(stat.Mean(values, nil)) * 0.1
	if scale == 0 {
		scale = 1
	}
	return scale
}
