// Command contig-analysis buckets the sequence lengths of a FASTA file into
// length bands and plots their density.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/seqstats/internal/chart"
	"github.com/banshee-data/seqstats/internal/config"
	"github.com/banshee-data/seqstats/internal/contig"
	"github.com/banshee-data/seqstats/internal/db"
	"github.com/banshee-data/seqstats/internal/fsutil"
	"github.com/banshee-data/seqstats/internal/logging"
	"github.com/banshee-data/seqstats/internal/report"
	"github.com/banshee-data/seqstats/internal/version"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	in          string
	configPath  string
	denominator int
	png         string
	html        string
	points      int
	dbPath      string
	json        bool
	assembly    bool
	verbose     bool
	version     bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	defaults := config.Empty()
	fs := flag.NewFlagSet("contig-analysis", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.in, "in", "contigs_all.fa", "FASTA file of contigs")
	fs.StringVar(&opts.configPath, "config", "", "path to a JSON config file")
	fs.IntVar(&opts.denominator, "denominator", defaults.GetDenominator(), "percentage denominator (0 uses the number of sequences)")
	fs.StringVar(&opts.png, "png", "", "write the length density plot to this PNG file")
	fs.StringVar(&opts.html, "html", "", "write an interactive length density chart to this HTML file")
	fs.IntVar(&opts.points, "points", defaults.GetDensityPoints(), "density grid size")
	fs.StringVar(&opts.dbPath, "db", defaults.GetDBPath(), "record the run in this sqlite database")
	fs.BoolVar(&opts.json, "json", false, "write a JSON report instead of text")
	fs.BoolVar(&opts.assembly, "assembly", defaults.GetAssembly(), "add assembly statistics (N50, N90, auN)")
	fs.BoolVar(&opts.verbose, "v", false, "verbose diagnostics")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	return fs
}

func applyFlags(cfg *config.Config, fs *flag.FlagSet, opts *options) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "denominator":
			cfg.Denominator = &opts.denominator
		case "points":
			cfg.DensityPoints = &opts.points
		case "db":
			cfg.DBPath = &opts.dbPath
		case "assembly":
			cfg.Assembly = &opts.assembly
		}
	})
}

func renderers(fsys fsutil.FileSystem, opts *options) chart.Renderer {
	var m chart.Multi
	if opts.png != "" {
		m = append(m, chart.NewPNGRenderer(fsys, opts.png))
	}
	if opts.html != "" {
		m = append(m, chart.NewHTMLRenderer(fsys, opts.html))
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, version.String("contig-analysis"))
		return exitOK
	}

	w := logging.LogWriters{Ops: stderr}
	if opts.verbose {
		w.Diag = stderr
	}
	logging.SetLogWriters(w)
	logger := log.New(stderr, "", log.LstdFlags)

	cfg, err := config.LoadOrDefault(opts.configPath)
	if err != nil {
		logger.Printf("load config: %v", err)
		return exitFailure
	}
	applyFlags(cfg, fs, &opts)
	if err := cfg.Validate(); err != nil {
		logger.Printf("invalid configuration: %v", err)
		return exitUsage
	}

	fsys := fsutil.OSFileSystem{}
	runOpts := contig.RunOptions{
		Options: contig.Options{
			Bands:       cfg.GetBands(),
			Denominator: cfg.GetDenominator(),
		},
		Points:   cfg.GetDensityPoints(),
		Assembly: cfg.GetAssembly(),
	}
	summary, err := contig.Run(ctx, fsys, opts.in, runOpts, renderers(fsys, &opts))
	if summary == nil {
		logger.Printf("%v", err)
		return exitFailure
	}
	code := exitOK
	if err != nil {
		logger.Printf("%v", err)
		code = exitFailure
	}

	if opts.json {
		err = report.WriteJSON(stdout, summary)
	} else {
		err = report.WriteBuckets(stdout, summary)
	}
	if err != nil {
		logger.Printf("write report: %v", err)
		return exitFailure
	}

	if path := cfg.GetDBPath(); path != "" {
		database, err := db.Open(path)
		if err != nil {
			logger.Printf("open db: %v", err)
			return exitFailure
		}
		defer database.Close()
		rec := db.ContigRunFromSummary(opts.in, summary)
		if err := db.NewContigStore(database).Insert(rec); err != nil {
			logger.Printf("record run: %v", err)
			return exitFailure
		}
		logging.Diagf("recorded contig run %s in %s", rec.ContigRunID, path)
	}
	return code
}
