package contig

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/banshee-data/seqstats/internal/chart"
	"github.com/banshee-data/seqstats/internal/fasta"
	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/logging"
)

// RunOptions configures Run.
type RunOptions struct {
	Options
	// Points is the density grid size; zero uses chart.DefaultPoints.
	Points int
	// Assembly adds N50/N90/auN and friends to the summary.
	Assembly bool
}

// Run parses the sequence file at path, buckets its lengths and hands the
// length density to renderer. A nil renderer skips plotting. When the
// renderer fails the summary is still returned alongside the error.
func Run(ctx context.Context, fsys fsutil.FileSystem, path string, opts RunOptions, renderer chart.Renderer) (*BucketSummary, error) {
	records, err := fasta.ParseFile(fsys, path)
	if err != nil {
		return nil, err
	}
	lengths := fasta.Lengths(records)
	logging.Diagf("%s: %d sequences", path, len(lengths))

	summary, err := Analyze(lengths, opts.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if opts.Assembly {
		summary.Assembly = AssemblyStats(lengths)
	}

	if renderer == nil {
		return summary, nil
	}
	density, err := chart.NewDensity(filepath.Base(path), lengths, opts.Points)
	if err != nil {
		return summary, err
	}
	if err := renderer.Render(ctx, density); err != nil {
		return summary, fmt.Errorf("render %s: %w", path, err)
	}
	return summary, nil
}
