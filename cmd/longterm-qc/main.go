// Command longterm-qc runs the long-term QARTOD battery over a wave
// time-series file and writes the detailed and clean QC reports.
//
// Usage:
//
//	longterm-qc [flags] <input.csv>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"buoyqc/internal/config"
	"buoyqc/internal/exporter"
	"buoyqc/internal/infrastructure"
	"buoyqc/internal/qc"
	"buoyqc/internal/timeseries"
)

const version = "1.0.0"

func main() {
	configFile := flag.String("config", "", "path to config.yaml (optional)")
	metadataFile := flag.String("metadata", "", "station metadata key,value CSV")
	outDir := flag.String("out", "", "output directory for reports (defaults to configured reports dir)")
	excelOut := flag.Bool("excel", false, "also write the clean report as an xlsx workbook")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: longterm-qc [flags] <input.csv>")
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

	runID := uuid.New().String()
	ctx := infrastructure.WithRunID(context.Background(), runID)

	providers, err := infrastructure.InitializeTelemetry(ctx, "longterm-qc", version)
	if err != nil {
		logger.Warn("telemetry unavailable, continuing without it", "error", err)
	}
	defer providers.Shutdown(ctx)

	logger.InfoContext(ctx, "performing long-term QC",
		slog.String("input", inputFile),
		slog.String("output_dir", *outDir),
		slog.Any("parameters", cfg.QC.Params))

	table, err := timeseries.LoadCSV(inputFile, cfg.QC.IndexColumn)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load time series", "error", err)
		os.Exit(1)
	}

	meta := qc.StationMetadata{}
	if *metadataFile != "" {
		meta, err = qc.LoadStationMetadata(*metadataFile)
		if err != nil {
			logger.ErrorContext(ctx, "failed to load station metadata", "error", err)
			os.Exit(1)
		}
	} else {
		logger.WarnContext(ctx, "no station metadata supplied, tests requiring it will be skipped")
	}

	settings := qc.Settings{
		NumStdevs:      cfg.QC.NumStdevs,
		FlatSuspectRun: cfg.QC.FlatSuspectRun,
		FlatFailRun:    cfg.QC.FlatFailRun,
		FlatEps:        cfg.QC.FlatEps,
	}

	engine := qc.NewEngine(settings, logger)
	detail, clean, err := engine.Run(ctx, table, cfg.QC.Params, meta)
	if err != nil {
		logger.ErrorContext(ctx, "QC run failed", "error", err)
		os.Exit(1)
	}

	writer := exporter.NewCSVWriter(*outDir)
	if err := qc.SaveDetailCSV(detail, writer, "detailed_report.csv"); err != nil {
		logger.ErrorContext(ctx, "failed to write detail report", "error", err)
		os.Exit(1)
	}
	if err := qc.SaveCleanCSV(clean, writer, "clean_data.csv"); err != nil {
		logger.ErrorContext(ctx, "failed to write clean report", "error", err)
		os.Exit(1)
	}

	if *excelOut {
		headers, records := qc.CleanRows(clean)
		workbook := filepath.Join(*outDir, "clean_data.xlsx")
		if err := exporter.WriteWorkbook(workbook, "CleanData", headers, records); err != nil {
			logger.ErrorContext(ctx, "failed to write workbook", "error", err)
			os.Exit(1)
		}
	}

	logger.InfoContext(ctx, "QC run complete",
		slog.Int("rows", table.Len()),
		slog.String("detail_report", "detailed_report.csv"),
		slog.String("clean_report", "clean_data.csv"))
}
