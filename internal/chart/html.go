package chart

import (
	"context"
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/logging"
)

// HTMLRenderer writes an interactive area chart page. Open the file in a
// browser to pan, zoom and inspect values.
type HTMLRenderer struct {
	FS   fsutil.FileSystem
	Path string
	// AssetsHost overrides the echarts JS location; empty uses the
	// go-echarts default CDN.
	AssetsHost string
}

// NewHTMLRenderer returns an HTMLRenderer writing to path.
func NewHTMLRenderer(fsys fsutil.FileSystem, path string) *HTMLRenderer {
	return &HTMLRenderer{FS: fsys, Path: path}
}

// Render builds the page and writes it to r.Path.
func (r *HTMLRenderer) Render(ctx context.Context, d *Density) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := make([]opts.LineData, len(d.KDE.X))
	for i := range d.KDE.X {
		data[i] = opts.LineData{Value: []interface{}{d.KDE.X[i], d.KDE.Density[i]}}
	}

	initOpts := opts.Initialization{PageTitle: d.Title, Width: "1000px", Height: "600px"}
	if r.AssetsHost != "" {
		initOpts.AssetsHost = r.AssetsHost
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTitleOpts(opts.Title{
			Title:    d.Title,
			Subtitle: fmt.Sprintf("sequences=%d bandwidth=%.1f", d.Samples, d.KDE.Bandwidth),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: d.XLabel, NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Density"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	line.AddSeries("density", data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
		charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.35)}),
	)

	page := components.NewPage()
	if r.AssetsHost != "" {
		page.SetAssetsHost(r.AssetsHost)
	}
	page.AddCharts(line)

	f, err := r.FS.Create(r.Path)
	if err != nil {
		return fmt.Errorf("chart: create %s: %w", r.Path, err)
	}
	if err := page.Render(f); err != nil {
		f.Close()
		return fmt.Errorf("chart: render %s: %w", r.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("chart: close %s: %w", r.Path, err)
	}
	logging.Diagf("interactive density chart written to %s", r.Path)
	return nil
}
