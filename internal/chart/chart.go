// Package chart renders sequence-length density plots.
//
// The density itself is computed by the stats package; renderers only
// draw it. NopRenderer lets callers run the analysis headless.
package chart

import (
	"context"
	"errors"
	"fmt"

	"github.com/banshee-data/seqstats/internal/stats"
)

// DefaultPoints is the default number of grid positions for the KDE.
const DefaultPoints = 512

// Density is a kernel density estimate ready to draw.
type Density struct {
	Title   string
	XLabel  string
	Samples int
	KDE     *stats.KDE
}

// NewDensity estimates the density of lengths on points grid positions.
func NewDensity(title string, lengths []int, points int) (*Density, error) {
	if points <= 0 {
		points = DefaultPoints
	}
	kde, err := stats.EstimateDensity(stats.Float64s(lengths), points)
	if err != nil {
		return nil, fmt.Errorf("chart: density: %w", err)
	}
	return &Density{
		Title:   title,
		XLabel:  "Sequence length (bp)",
		Samples: len(lengths),
		KDE:     kde,
	}, nil
}

// Renderer draws a Density to some surface.
type Renderer interface {
	Render(ctx context.Context, d *Density) error
}

// NopRenderer discards the density.
type NopRenderer struct{}

// Render does nothing.
func (NopRenderer) Render(context.Context, *Density) error { return nil }

// Multi renders to each renderer in turn and joins their errors.
type Multi []Renderer

// Render calls every renderer, even after one fails.
func (m Multi) Render(ctx context.Context, d *Density) error {
	var errs []error
	for _, r := range m {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := r.Render(ctx, d); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
