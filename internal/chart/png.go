package chart

import (
	"context"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/logging"
)

// PNGRenderer draws the density as a shaded area chart image.
type PNGRenderer struct {
	FS     fsutil.FileSystem
	Path   string
	Width  vg.Length
	Height vg.Length
}

// NewPNGRenderer returns a PNGRenderer writing a 10x6 inch image to path.
func NewPNGRenderer(fsys fsutil.FileSystem, path string) *PNGRenderer {
	return &PNGRenderer{FS: fsys, Path: path, Width: 10 * vg.Inch, Height: 6 * vg.Inch}
}

// Render builds the plot and writes it to r.Path.
func (r *PNGRenderer) Render(ctx context.Context, d *Density) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = d.Title
	p.X.Label.Text = d.XLabel
	p.Y.Label.Text = "Density"
	p.Add(plotter.NewGrid())

	pts := make(plotter.XYs, len(d.KDE.X))
	for i := range d.KDE.X {
		pts[i] = plotter.XY{X: d.KDE.X[i], Y: d.KDE.Density[i]}
	}
	line, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("chart: density line: %w", err)
	}
	line.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	line.Width = vg.Points(1.5)
	line.FillColor = color.RGBA{R: 31, G: 119, B: 180, A: 80}
	p.Add(line)

	wt, err := p.WriterTo(r.Width, r.Height, "png")
	if err != nil {
		return fmt.Errorf("chart: png canvas: %w", err)
	}

	f, err := r.FS.Create(r.Path)
	if err != nil {
		return fmt.Errorf("chart: create %s: %w", r.Path, err)
	}
	if _, err := wt.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("chart: write %s: %w", r.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("chart: close %s: %w", r.Path, err)
	}
	logging.Diagf("density plot written to %s", r.Path)
	return nil
}
