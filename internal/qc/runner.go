package qc

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"buoyqc/internal/timeseries"
)

// Test identifiers follow the QARTOD manual numbering and double as report
// column suffixes ("hm0_15", "mdir_missing", ...).
const (
	TestIDMissing       = "missing"
	TestIDMeanStdev     = "15"
	TestIDFlatline      = "16"
	TestIDFeasibleRange = "19"
	TestIDRateOfChange  = "20"
)

// TestOrder is the fixed execution order of the long-term battery.
var TestOrder = []string{
	TestIDMissing,
	TestIDMeanStdev,
	TestIDFlatline,
	TestIDFeasibleRange,
	TestIDRateOfChange,
}

// Settings are the engine-wide test defaults, used wherever station metadata
// does not override them. Keeping them in one named structure makes the
// defaults testable and overridable per station instead of living as
// literals inside the test functions.
type Settings struct {
	NumStdevs      float64 `validate:"gt=0"`
	FlatSuspectRun int     `validate:"gte=2"`
	FlatFailRun    int     `validate:"gte=2"`
	FlatEps        float64 `validate:"gt=0"`
}

// DefaultSettings returns the QARTOD manual defaults.
func DefaultSettings() Settings {
	return Settings{
		NumStdevs:      4,
		FlatSuspectRun: 3,
		FlatFailRun:    5,
		FlatEps:        0.01,
	}
}

// Runner executes the long-term battery for a single parameter.
type Runner struct {
	settings Settings
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewRunner creates a parameter runner with the given defaults.
func NewRunner(settings Settings, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		settings: settings,
		logger:   logger,
		tracer:   otel.Tracer("buoyqc/internal/qc"),
	}
}

// ParamResult holds one parameter's per-test flag columns and the coalesced
// overall column, all aligned with the source table index.
type ParamResult struct {
	Param string
	Tests map[string][]Flag
	QC    []Flag
}

// RunParameter masks previously failed observations, executes every test in
// TestOrder with metadata-resolved configuration, and coalesces the per-test
// flags into the parameter's overall column. Tests without sufficient
// metadata degrade to all-pass no-ops; only missing input columns are
// errors.
func (r *Runner) RunParameter(ctx context.Context, table *timeseries.Table, param string, meta StationMetadata) (ParamResult, error) {
	ctx, span := r.tracer.Start(ctx, "qc.RunParameter",
		trace.WithAttributes(attribute.String("parameter", param)))
	defer span.End()

	pop, err := MaskPriorFailures(table, param)
	if err != nil {
		return ParamResult{}, fmt.Errorf("run parameter %s: %w", param, err)
	}

	cfg, err := BindParamConfig(param, meta, r.settings, r.logger)
	if err != nil {
		return ParamResult{}, fmt.Errorf("run parameter %s: %w", param, err)
	}

	rows := table.Len()
	r.logger.InfoContext(ctx, "running long-term battery",
		slog.String("parameter", param),
		slog.Int("rows", rows),
		slog.Int("unmasked", pop.Len()),
		slog.Bool("range_test", cfg.HasRange),
		slog.Bool("roc_test", cfg.HasRoc))

	result := ParamResult{
		Param: param,
		Tests: make(map[string][]Flag, len(TestOrder)),
	}

	for _, test := range TestOrder {
		result.Tests[test] = pop.Scatter(r.runTest(test, pop, cfg), rows)
	}

	result.QC = coalesceColumns(result.Tests, rows)
	span.SetAttributes(attribute.Int("unmasked", pop.Len()))
	return result, nil
}

// runTest dispatches one test over the working population. Tests whose
// configuration is unavailable return all-pass; the binder has already
// logged the notice.
func (r *Runner) runTest(test string, pop Population, cfg ParamConfig) []Flag {
	switch test {
	case TestIDMissing:
		return TestMissing(pop)
	case TestIDMeanStdev:
		return TestMeanStdev(pop, cfg.NumStdevs)
	case TestIDFlatline:
		return TestFlatline(pop, cfg.FlatSuspectRun, cfg.FlatFailRun, cfg.FlatEps)
	case TestIDFeasibleRange:
		if !cfg.HasRange {
			return passes(pop.Len())
		}
		return TestFeasibleRange(pop, cfg.RangeMin, cfg.RangeMax, cfg.RangeCritical)
	case TestIDRateOfChange:
		if !cfg.HasRoc {
			return passes(pop.Len())
		}
		return TestRateOfChange(pop, cfg.RocDelta, cfg.RocAngular)
	default:
		r.logger.Warn("unknown test requested", slog.String("test", test))
		return passes(pop.Len())
	}
}

// coalesceColumns reduces the per-test columns to the overall flag column
// via row-wise worst-case selection.
func coalesceColumns(tests map[string][]Flag, rows int) []Flag {
	qc := passes(rows)
	for _, column := range tests {
		for i, f := range column {
			qc[i] = Worst(qc[i], f)
		}
	}
	return qc
}
