// Command shortterm-qc runs the stateless short-term checks over a raw buoy
// displacement file and writes one qc_<param>.csv per channel.
//
// Usage:
//
//	shortterm-qc [flags] <input.csv>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"buoyqc/internal/config"
	"buoyqc/internal/exporter"
	"buoyqc/internal/infrastructure"
	"buoyqc/internal/shortterm"
	"buoyqc/internal/timeseries"
)

func main() {
	configFile := flag.String("config", "", "path to config.yaml (optional)")
	outDir := flag.String("out", "", "output directory (defaults to configured reports dir)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: shortterm-qc [flags] <input.csv>")
		os.Exit(1)
	}
	inputFile := flag.Arg(0)

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *outDir == "" {
		*outDir = cfg.Paths.ReportsDir
	}

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	logger.InfoContext(ctx, "performing short-term QC",
		slog.String("input", inputFile),
		slog.Any("parameters", cfg.ShortTerm.Params))

	table, err := timeseries.LoadCSV(inputFile, cfg.ShortTerm.IndexColumn)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load time series", "error", err)
		os.Exit(1)
	}

	options := shortterm.Options{
		MissingRunLimit: cfg.ShortTerm.MissingRunLimit,
		NumStdevs:       cfg.ShortTerm.NumStdevs,
		Limits: shortterm.RangeLimits{
			InstrumentMin: cfg.ShortTerm.InstrumentMin,
			InstrumentMax: cfg.ShortTerm.InstrumentMax,
			LocalMin:      cfg.ShortTerm.LocalMin,
			LocalMax:      cfg.ShortTerm.LocalMax,
		},
	}

	runner := shortterm.NewRunner(options, exporter.NewCSVWriter(*outDir), logger)
	results, err := runner.Run(ctx, table, cfg.ShortTerm.Params)
	if err != nil {
		logger.ErrorContext(ctx, "short-term QC failed", "error", err)
		os.Exit(1)
	}

	for _, result := range results {
		logger.InfoContext(ctx, "parameter checked",
			slog.String("parameter", result.Param),
			slog.Int("missing_run_flag", result.MissingRunFlag),
			slog.String("output", result.OutputPath))
	}
}
