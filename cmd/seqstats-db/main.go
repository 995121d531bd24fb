// Command seqstats-db manages and queries the database that blast-summary
// and contig-analysis accumulate results into.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/banshee-data/seqstats/internal/config"
	"github.com/banshee-data/seqstats/internal/db"
	"github.com/banshee-data/seqstats/internal/report"
	"github.com/banshee-data/seqstats/internal/version"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		log.Fatalf("seqstats-db: %v", err)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: seqstats-db [-db path] <command> [args]

Commands:
  migrate <up|down|status>   manage the schema
  summaries [-run id] [-n N] list alignment summaries, one run or the latest N
  contigs -path file         list contiguity runs for a FASTA file
  config [-config file]      print the configuration the tools would use
  version                    print version`)
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("seqstats-db", flag.ContinueOnError)
	fs.SetOutput(stderr)
	dbPath := fs.String("db", "seqstats.db", "path to sqlite db")
	fs.Usage = func() { usage(stderr) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		usage(stderr)
		return fmt.Errorf("missing command")
	}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "migrate":
		return db.RunMigrateCommand(rest, *dbPath, stdout)
	case "summaries":
		return listSummaries(rest, *dbPath, stdout, stderr)
	case "contigs":
		return listContigs(rest, *dbPath, stdout, stderr)
	case "config":
		return showConfig(rest, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, version.String("seqstats-db"))
		return nil
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func listSummaries(args []string, dbPath string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("summaries", flag.ContinueOnError)
	fs.SetOutput(stderr)
	runID := fs.String("run", "", "list the summaries of one batch run")
	limit := fs.Int("n", 20, "number of most recent summaries")
	if err := fs.Parse(args); err != nil {
		return err
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	store := db.NewSummaryStore(database)
	var recs []*db.SummaryRecord
	if *runID != "" {
		recs, err = store.ListByRun(*runID)
	} else {
		recs, err = store.Latest(*limit)
	}
	if err != nil {
		return err
	}
	if recs == nil {
		recs = []*db.SummaryRecord{}
	}
	return report.WriteJSON(stdout, recs)
}

func listContigs(args []string, dbPath string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("contigs", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("path", "", "FASTA file the runs were computed from")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("contigs: -path is required")
	}

	database, err := db.Open(dbPath)
	if err != nil {
		return err
	}
	defer database.Close()

	runs, err := db.NewContigStore(database).ListByPath(*path)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*db.ContigRun{}
	}
	return report.WriteJSON(stdout, runs)
}

func showConfig(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	path := fs.String("config", "", "JSON config file to merge over the defaults")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := config.LoadOrDefault(*path)
	if err != nil {
		return err
	}
	return report.WriteJSON(stdout, cfg.Resolved())
}
