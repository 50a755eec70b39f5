// Command disruptdb ingests directories of transit-disruption JSON
// snapshots, compacts them into a content-addressed database, serializes the
// database in every supported format, and reports size and compression
// statistics.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	disruptdb "github.com/gendx/disruptdb"
	"github.com/gendx/disruptdb/bench"
	"github.com/gendx/disruptdb/ingest"
	"github.com/gendx/disruptdb/persist"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type options struct {
	workers  int
	jsonLogs bool
	verbose  bool
	noBench  bool
	compress bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:          "disruptdb OUTPUT_DIR INPUT_DIR...",
		Short:        "Compact transit-disruption JSON corpora into a content-addressed database",
		Args:         cobra.MinimumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, args[0], args[1:], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "concurrent ingestion workers (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.jsonLogs, "json-logs", false, "emit JSON-formatted logs")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	cmd.Flags().BoolVar(&opts.noBench, "no-bench", false, "skip the compression benchmark")
	cmd.Flags().BoolVar(&opts.compress, "compress", false, "zstd-compress the binary file's payload")

	return cmd
}

func run(cmd *cobra.Command, outputDir string, inputDirs []string, opts options) error {
	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	var logger *disruptdb.Logger
	if opts.jsonLogs {
		logger = disruptdb.NewJSONLogger(level)
	} else {
		logger = disruptdb.NewTextLogger(level)
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	db := disruptdb.New()
	ing := ingest.New(db.Stores,
		ingest.WithWorkers(opts.workers),
		ingest.WithLogger(logger),
	)
	records, stats, err := ing.Run(ctx, inputDirs)
	if err != nil {
		return err
	}
	db.Records = records

	writeCompactionSummary(out, db, stats)

	results, err := persist.SaveAll(ctx, db, outputDir,
		persist.WithLogger(logger),
		persist.WithCompression(opts.compress),
	)
	if err != nil {
		return err
	}

	if opts.noBench {
		return nil
	}

	benchResults, err := bench.Run(results)
	if err != nil {
		return err
	}
	bench.WriteSizeTable(out, benchResults, stats.RawBytes())
	bench.WriteTimeTable(out, benchResults)
	return nil
}

func writeCompactionSummary(out io.Writer, db *disruptdb.Database, stats *ingest.Stats) {
	compactedBytes := db.EstimateBytes()
	stats.WriteSummary(out, compactedBytes)

	storeBytes := db.Stores.EstimateBytes()
	fmt.Fprintf(out, "[%.2f%%] Stores: %d bytes\n",
		float64(storeBytes)*100.0/float64(compactedBytes), storeBytes)
	db.Stores.WriteSummary(out, compactedBytes)
}
