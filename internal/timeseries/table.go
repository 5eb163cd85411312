package timeseries

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Sentinel errors for callers that need to distinguish data-availability
// failures from malformed input.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrNoData         = errors.New("no data rows")
)

// Table is an ordered collection of float64 columns sharing one timestamp
// index. Index labels keep their original formatting so reports can be
// written back row-aligned with the input file.
type Table struct {
	indexName string
	labels    []string
	times     []time.Time
	columns   map[string][]float64
	order     []string
}

// NewTable creates an empty table for the given index. Labels are the
// original timestamp strings; times are their parsed values and must be
// strictly increasing with no duplicates.
func NewTable(labels []string, times []time.Time) (*Table, error) {
	if len(labels) != len(times) {
		return nil, fmt.Errorf("index length mismatch: %d labels, %d times", len(labels), len(times))
	}

	for i := 1; i < len(times); i++ {
		if !times[i].After(times[i-1]) {
			return nil, fmt.Errorf("index not strictly increasing at row %d (%s)", i, labels[i])
		}
	}

	return &Table{
		indexName: "Time",
		labels:    labels,
		times:     times,
		columns:   make(map[string][]float64),
	}, nil
}

// IndexName returns the name of the timestamp index column.
func (t *Table) IndexName() string {
	return t.indexName
}

// SetIndexName overrides the timestamp index column name used in output.
func (t *Table) SetIndexName(name string) {
	if name != "" {
		t.indexName = name
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.labels)
}

// Labels returns the original index strings.
func (t *Table) Labels() []string {
	return t.labels
}

// Times returns the parsed index values.
func (t *Table) Times() []time.Time {
	return t.times
}

// Columns returns column names in insertion order.
func (t *Table) Columns() []string {
	return t.order
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Column returns the values of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("column %q: %w", name, ErrColumnNotFound)
	}
	return values, nil
}

// AddColumn appends a column to the table. The column must match the index
// length and the name must be unused.
func (t *Table) AddColumn(name string, values []float64) error {
	if len(values) != len(t.labels) {
		return fmt.Errorf("column %q length %d does not match index length %d", name, len(values), len(t.labels))
	}
	if _, exists := t.columns[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}

	t.columns[name] = values
	t.order = append(t.order, name)
	return nil
}

// IsMissing reports whether the value at row i of the named column is the
// no-data marker (NaN). Unknown columns count as missing.
func (t *Table) IsMissing(name string, i int) bool {
	values, ok := t.columns[name]
	if !ok || i < 0 || i >= len(values) {
		return true
	}
	return math.IsNaN(values[i])
}
