// Package qc implements the long-term QARTOD quality-control battery for
// ocean-buoy wave time series.
//
// For each tracked parameter the engine masks observations that failed an
// earlier QC run, executes a fixed sequence of statistical tests against the
// remaining population, and coalesces the per-test flags into a single
// overall flag per observation. A declarative set of propagation rules then
// forces dependent parameters to fail where a physically related parameter
// produced an implausible reading.
//
// # Architecture
//
// The package follows a leaf-first layout with pure test functions at the
// bottom and a thin orchestrator on top:
//
//   - flags.go: the closed flag enumeration and worst-case reducer
//   - mask.go: masking of previously failed observations into a Population
//   - metadata.go: station metadata loading and per-parameter configuration
//   - missing.go, meanstdev.go, flatline.go, feasiblerange.go,
//     rateofchange.go: the individual QARTOD tests
//   - runner.go: per-parameter orchestration and flag coalescing
//   - propagate.go: cross-parameter dependency rules
//   - report.go: detail and clean report assembly
//   - persist.go: report output
//   - metrics.go: Prometheus instrumentation
//
// # Flags
//
// Test results use the QARTOD flag scheme: 0 pass, 3 suspect, 4 fail,
// 8 missing. Higher always means worse; combining flags for one observation
// takes the maximum.
//
// # Usage
//
//	table, err := timeseries.LoadCSV("waves.csv", "Time")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	meta, err := qc.LoadStationMetadata("station.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	engine := qc.NewEngine(qc.DefaultSettings(), slog.Default())
//	detail, clean, err := engine.Run(ctx, table, []string{"hm0", "mdir", "tm02"}, meta)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	writer := exporter.NewCSVWriter("reports")
//	err = qc.SaveDetailCSV(detail, writer, "detailed_report.csv")
//
// Missing station metadata never aborts a run: the affected test degrades to
// an all-pass no-op for that parameter and a warning is logged.
package qc
