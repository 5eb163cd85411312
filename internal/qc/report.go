package qc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"buoyqc/internal/timeseries"
)

// Report is the assembled QC output: raw parameter values, one flag column
// per (parameter, test) pair, and one coalesced column per parameter, all
// indexed identically to the input time series.
type Report struct {
	IndexName string
	Labels    []string
	Params    []string

	Raw   map[string][]float64
	Tests map[string][]Flag // keyed "<param>_<test>"
	QC    map[string][]Flag // keyed by parameter
}

// Len returns the number of rows.
func (r *Report) Len() int {
	return len(r.Labels)
}

// TestColumn returns the flag column for one parameter and test.
func (r *Report) TestColumn(param, test string) ([]Flag, bool) {
	column, ok := r.Tests[param+"_"+test]
	return column, ok
}

// DetailColumns returns the detail report column order: raw parameters
// first, then per-test and coalesced columns grouped by parameter.
func (r *Report) DetailColumns() []string {
	columns := make([]string, 0, len(r.Params)*(len(TestOrder)+2))
	columns = append(columns, r.Params...)
	for _, param := range r.Params {
		for _, test := range TestOrder {
			columns = append(columns, param+"_"+test)
		}
		columns = append(columns, param+"_qc")
	}
	return columns
}

// CleanColumns returns the clean report column order: raw parameters
// followed by the coalesced columns.
func (r *Report) CleanColumns() []string {
	columns := make([]string, 0, len(r.Params)*2)
	columns = append(columns, r.Params...)
	for _, param := range r.Params {
		columns = append(columns, param+"_qc")
	}
	return columns
}

// Engine drives the full long-term pipeline: every parameter through the
// Runner, then cross-parameter propagation once over the assembled report.
type Engine struct {
	runner *Runner
	rules  []PropagationRule
	logger *slog.Logger
	tracer trace.Tracer
}

// NewEngine creates an engine with the default propagation rules.
func NewEngine(settings Settings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		runner: NewRunner(settings, logger),
		rules:  DefaultPropagationRules(),
		logger: logger,
		tracer: otel.Tracer("buoyqc/internal/qc"),
	}
}

// SetPropagationRules replaces the dependency rules applied after the
// per-parameter stage.
func (e *Engine) SetPropagationRules(rules []PropagationRule) {
	e.rules = rules
}

// Run executes the pipeline over the table for the requested parameters and
// returns the detail report and its clean projection. Parameters are
// processed sequentially: the propagation stage needs every parameter's
// columns in place before dependency rules can run.
func (e *Engine) Run(ctx context.Context, table *timeseries.Table, params []string, meta StationMetadata) (*Report, *Report, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "qc.Run",
		trace.WithAttributes(attribute.Int("parameters", len(params))))
	defer span.End()

	e.logger.InfoContext(ctx, "starting long-term QC run",
		slog.Int("rows", table.Len()),
		slog.Any("parameters", params))

	report := &Report{
		IndexName: table.IndexName(),
		Labels:    table.Labels(),
		Params:    params,
		Raw:       make(map[string][]float64, len(params)),
		Tests:     make(map[string][]Flag, len(params)*len(TestOrder)),
		QC:        make(map[string][]Flag, len(params)),
	}

	for _, param := range params {
		raw, err := table.Column(param)
		if err != nil {
			return nil, nil, fmt.Errorf("assemble report: %w", err)
		}
		report.Raw[param] = raw

		result, err := e.runner.RunParameter(ctx, table, param, meta)
		if err != nil {
			return nil, nil, fmt.Errorf("assemble report: %w", err)
		}
		for test, column := range result.Tests {
			report.Tests[param+"_"+test] = column
		}
		report.QC[param] = result.QC

		observeParameter(param, result.QC)
	}

	ApplyPropagation(report, e.rules, e.logger)

	clean := report.cleanProjection()
	observeRun(time.Since(start))

	e.logger.InfoContext(ctx, "long-term QC run completed",
		slog.Duration("duration", time.Since(start)),
		slog.Int("rows", table.Len()),
		slog.Int("parameters", len(params)))

	return report, clean, nil
}

// cleanProjection reduces the detail report to raw values plus coalesced
// columns. The flag slices are shared with the detail report; propagation
// has already run by the time the projection is taken.
func (r *Report) cleanProjection() *Report {
	return &Report{
		IndexName: r.IndexName,
		Labels:    r.Labels,
		Params:    r.Params,
		Raw:       r.Raw,
		Tests:     map[string][]Flag{},
		QC:        r.QC,
	}
}
