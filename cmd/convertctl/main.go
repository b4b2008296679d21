// convertctl converts heterogeneous IT/security artifact files into a
// uniform JSON representation.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/plonxyz/convertctl/internal/output"
	"github.com/plonxyz/convertctl/internal/processor"
	"github.com/plonxyz/convertctl/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		input         = flag.String("input", "", "input file or directory path (required)")
		outputDir     = flag.String("output-dir", "", "output directory for JSON files (required)")
		combine       = flag.Bool("combine", false, "create a combined master.json file with all outputs")
		overwrite     = flag.Bool("overwrite", false, "overwrite existing output files")
		silent        = flag.Bool("silent", false, "suppress console output (errors only)")
		verbose       = flag.Bool("verbose", false, "enable verbose logging")
		formats       = flag.String("formats", "", "comma-separated list of formats to process (default: all)")
		workers       = flag.Int("workers", 0, "number of parallel workers (default: CPU count)")
		maxPackets    = flag.Int("max-packets", 10000, "maximum packets to extract from capture files")
		includeBase64 = flag.Bool("include-base64", false, "include base64-encoded content for binary files (up to 1MB)")
		sqlitePath    = flag.String("sqlite", "", "also write results to a SQLite database at this path")
		csvIndexPath  = flag.String("csv-index", "", "also write a CSV conversion index at this path")
		reportPath    = flag.String("report", "", "write an HTML run report to this path")
	)
	flag.Parse()

	logger := setupLogger(*silent, *verbose)

	if *input == "" || *outputDir == "" {
		fmt.Fprintln(os.Stderr, "both --input and --output-dir are required")
		flag.Usage()
		return 1
	}

	if _, err := os.Stat(*input); err != nil {
		logger.Error("input path does not exist", "path", *input)
		return 1
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		logger.Error("could not create output directory", "path", *outputDir, "error", err)
		return 1
	}

	var formatsFilter []string
	if *formats != "" {
		formatsFilter = strings.Split(*formats, ",")
	}

	runID := uuid.NewString()

	var sinks []output.Writer
	if *sqlitePath != "" {
		w, err := output.NewSQLiteWriter(*sqlitePath, runID)
		if err != nil {
			logger.Error("could not open sqlite sink", "path", *sqlitePath, "error", err)
			return 1
		}
		sinks = append(sinks, w)
	}
	if *csvIndexPath != "" {
		w, err := output.NewCSVWriter(*csvIndexPath)
		if err != nil {
			logger.Error("could not open csv index sink", "path", *csvIndexPath, "error", err)
			return 1
		}
		sinks = append(sinks, w)
	}
	var sink output.Writer
	if len(sinks) > 0 {
		sink = output.NewMultiWriter(sinks...)
	}

	proc := processor.New(processor.Options{
		OutputDir:     *outputDir,
		Overwrite:     *overwrite,
		Formats:       formatsFilter,
		Workers:       *workers,
		MaxPackets:    *maxPackets,
		IncludeBase64: *includeBase64,
		ShowProgress:  !*silent,
		Logger:        logger,
		Sink:          sink,
		RunID:         runID,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	counts, err := proc.Run(ctx, *input)

	if sink != nil {
		if cerr := sink.Close(); cerr != nil {
			logger.Warn("error closing sinks", "error", cerr)
		}
	}

	if err != nil {
		logger.Error("fatal error", "error", err)
		return 1
	}

	interrupted := ctx.Err() != nil

	if !*silent {
		logger.Info("processing complete", "successful", counts.Successful, "failed", counts.Failed)
	}

	if *combine {
		if err := proc.CreateMasterJSON(filepath.Join(*outputDir, "master.json")); err != nil {
			logger.Error("could not create master document", "error", err)
			return 1
		}
	}

	if *reportPath != "" {
		err := report.GenerateHTMLReport(
			*reportPath, proc.RunID(), proc.StartedAt(),
			proc.Results(), proc.Failures(), logger,
		)
		if err != nil {
			logger.Error("could not generate report", "error", err)
			return 1
		}
		if !*silent {
			logger.Info("wrote run report", "path", *reportPath)
		}
	}

	if interrupted {
		logger.Info("interrupted by user")
		return 130
	}
	if counts.Failed > 0 {
		return 1
	}
	return 0
}

func setupLogger(silent, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	if silent {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
