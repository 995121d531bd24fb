// Command blast-summary pairs BLAST tabular results with their query FASTA
// files in a directory and prints an alignment summary for each pair.
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

	"github.com/banshee-data/seqstats/internal/batch"
	"github.com/banshee-data/seqstats/internal/blast"
	"github.com/banshee-data/seqstats/internal/config"
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
	dir        string
	configPath string
	tableExt   string
	recordExt  string
	comma      string
	csvOut     string
	dbPath     string
	json       bool
	totals     bool
	verbose    bool
	version    bool
}

func newFlagSet(opts *options, stderr io.Writer) *flag.FlagSet {
	defaults := config.Empty()
	fs := flag.NewFlagSet("blast-summary", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.dir, "dir", ".", "directory holding the alignment tables and query record files")
	fs.StringVar(&opts.configPath, "config", "", "path to a JSON config file")
	fs.StringVar(&opts.tableExt, "table-ext", defaults.GetTableExt(), "extension of alignment table files")
	fs.StringVar(&opts.recordExt, "record-ext", defaults.GetRecordExt(), "extension of query record files")
	fs.StringVar(&opts.comma, "comma", defaults.GetSeparator(), `table field separator ("tab" for tab-separated)`)
	fs.StringVar(&opts.csvOut, "csv-out", defaults.GetCSVOut(), "append one CSV row per pair to this file")
	fs.StringVar(&opts.dbPath, "db", defaults.GetDBPath(), "record summaries in this sqlite database")
	fs.BoolVar(&opts.json, "json", false, "write JSON reports instead of text")
	fs.BoolVar(&opts.totals, "totals", defaults.GetTotals(), "add aligned-base totals and overall identity to the report")
	fs.BoolVar(&opts.verbose, "v", false, "verbose diagnostics")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	return fs
}

// applyFlags overrides cfg with every flag given on the command line.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, opts *options) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "table-ext":
			cfg.TableExt = &opts.tableExt
		case "record-ext":
			cfg.RecordExt = &opts.recordExt
		case "comma":
			cfg.Separator = &opts.comma
		case "csv-out":
			cfg.CSVOut = &opts.csvOut
		case "db":
			cfg.DBPath = &opts.dbPath
		case "totals":
			cfg.Totals = &opts.totals
		}
	})
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
		fmt.Fprintln(stdout, version.String("blast-summary"))
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
	if _, err := blast.ParseComma(cfg.GetSeparator()); err != nil {
		logger.Printf("invalid -comma: %v", err)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		logger.Printf("invalid configuration: %v", err)
		return exitFailure
	}

	fsys := fsutil.OSFileSystem{}
	tables, records, err := batch.Discover(fsys, opts.dir, cfg.GetTableExt(), cfg.GetRecordExt())
	if err != nil {
		logger.Printf("discover: %v", err)
		return exitFailure
	}
	pairs, err := batch.MatchPairs(tables, records, cfg.GetTableExt(), cfg.GetRecordExt())
	if err != nil {
		logger.Printf("%v", err)
		return exitFailure
	}
	if len(pairs) == 0 {
		logging.Opsf("nothing to summarize in %s", opts.dir)
		return exitOK
	}

	runner := &batch.Runner{
		FS:    fsys,
		Out:   stdout,
		Comma: cfg.GetComma(),
		Text:  report.TextOptions{Totals: cfg.GetTotals()},
		JSON:  opts.json,
	}

	if path := cfg.GetCSVOut(); path != "" {
		acc, err := report.OpenCSVAccumulator(fsys, path)
		if err != nil {
			logger.Printf("open csv output: %v", err)
			return exitFailure
		}
		defer func() {
			logging.Diagf("appended %d rows to %s", acc.Rows(), path)
			if err := acc.Close(); err != nil {
				logger.Printf("close csv output: %v", err)
			}
		}()
		runner.CSV = acc
	}

	if path := cfg.GetDBPath(); path != "" {
		database, err := db.Open(path)
		if err != nil {
			logger.Printf("open db: %v", err)
			return exitFailure
		}
		defer database.Close()
		runner.Store = db.NewSummaryStore(database)
		runner.RunID = db.NewRunID()
		logging.Diagf("recording run %s in %s", runner.RunID, path)
	}

	res := runner.Run(ctx, pairs)
	if res.Canceled {
		return exitFailure
	}
	if len(res.Failures) > 0 {
		logger.Printf("%d of %d pairs failed", len(res.Failures), len(pairs))
		return exitFailure
	}
	return exitOK
}
