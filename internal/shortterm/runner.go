package shortterm

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"buoyqc/internal/exporter"
	"buoyqc/internal/timeseries"
)

// DefaultParams are the displacement channels checked in a raw buoy file.
var DefaultParams = []string{"Heave", "North", "West"}

// Options configures a short-term run.
type Options struct {
	MissingRunLimit int
	NumStdevs       float64
	Limits          RangeLimits
}

// DefaultOptions returns the documented short-term defaults.
func DefaultOptions() Options {
	return Options{
		MissingRunLimit: 4,
		NumStdevs:       4,
		Limits:          DefaultRangeLimits(),
	}
}

// Result summarizes one parameter's short-term checks. The per-value columns
// are written to the parameter's output file; the file-level missing-run
// flag is reported here.
type Result struct {
	Param          string
	MissingRunFlag int
	OutputPath     string
}

// Runner executes the short-term checks and writes one CSV per parameter.
type Runner struct {
	options Options
	writer  *exporter.CSVWriter
	logger  *slog.Logger
}

// NewRunner creates a short-term runner writing through the given CSV
// writer.
func NewRunner(options Options, writer *exporter.CSVWriter, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{options: options, writer: writer, logger: logger}
}

// Run checks every requested parameter concurrently and writes
// "qc_<param>.csv" files with {raw value, test10 outlier, test11 flag}
// columns. Parameters missing from the table are errors; the checks
// themselves cannot fail.
func (r *Runner) Run(ctx context.Context, table *timeseries.Table, params []string) ([]Result, error) {
	if len(params) == 0 {
		params = DefaultParams
	}

	results := make([]Result, len(params))
	var mu sync.Mutex

	group, ctx := errgroup.WithContext(ctx)
	for i, param := range params {
		group.Go(func() error {
			result, err := r.runParameter(ctx, table, param)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("short-term run: %w", err)
	}

	return results, nil
}

func (r *Runner) runParameter(ctx context.Context, table *timeseries.Table, param string) (Result, error) {
	values, err := table.Column(param)
	if err != nil {
		return Result{}, err
	}

	missingFlag := MissingRunFlag(values, r.options.MissingRunLimit)
	outliers := StdevOutliers(values, r.options.NumStdevs)
	rangeFlags := RangeFlags(values, r.options.Limits)

	r.logger.InfoContext(ctx, "short-term checks completed",
		slog.String("parameter", param),
		slog.Int("rows", len(values)),
		slog.Int("missing_run_flag", missingFlag))

	headers := []string{table.IndexName(), param, "test10", "test11"}
	records := make([][]string, len(values))
	labels := table.Labels()
	for i, v := range values {
		raw := ""
		if !math.IsNaN(v) {
			raw = strconv.FormatFloat(v, 'g', -1, 64)
		}
		records[i] = []string{
			labels[i],
			raw,
			strconv.FormatBool(outliers[i]),
			strconv.Itoa(rangeFlags[i]),
		}
	}

	path := fmt.Sprintf("qc_%s.csv", strings.ToLower(param))
	if err := r.writer.WriteSimpleCSV(path, headers, records); err != nil {
		return Result{}, fmt.Errorf("write %s: %w", path, err)
	}

	return Result{Param: param, MissingRunFlag: missingFlag, OutputPath: path}, nil
}
