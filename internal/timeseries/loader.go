package timeseries

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// timeLayouts are the timestamp formats accepted in the index column,
// tried in order.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02/01/2006 15:04",
}

// LoadCSV reads a delimited time-series file into a Table. The column named
// indexColumn becomes the table index; every other column is parsed as
// float64 with empty cells and unparseable markers ("NaN", "NA", "null")
// stored as NaN.
func LoadCSV(path, indexColumn string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open time series %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read time series %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("time series %s: %w", path, ErrNoData)
	}

	header := rows[0]
	indexPos := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), indexColumn) {
			indexPos = i
			break
		}
	}
	if indexPos < 0 {
		return nil, fmt.Errorf("index column %q not found in %s", indexColumn, path)
	}

	dataRows := rows[1:]
	labels := make([]string, 0, len(dataRows))
	times := make([]time.Time, 0, len(dataRows))

	for i, row := range dataRows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d of %s has %d fields, expected %d", i+2, path, len(row), len(header))
		}
		label := strings.TrimSpace(row[indexPos])
		ts, err := parseTimestamp(label)
		if err != nil {
			return nil, fmt.Errorf("row %d of %s: %w", i+2, path, err)
		}
		labels = append(labels, label)
		times = append(times, ts)
	}

	table, err := NewTable(labels, times)
	if err != nil {
		return nil, fmt.Errorf("build table from %s: %w", path, err)
	}
	table.SetIndexName(strings.TrimSpace(header[indexPos]))

	for col, name := range header {
		if col == indexPos {
			continue
		}
		name = strings.TrimSpace(name)
		values := make([]float64, len(dataRows))
		missing := 0
		for i, row := range dataRows {
			v, ok := parseValue(row[col])
			if !ok {
				missing++
			}
			values[i] = v
		}
		if missing > 0 {
			slog.Debug("column has missing values",
				slog.String("column", name),
				slog.Int("missing", missing),
				slog.Int("rows", len(dataRows)))
		}
		if err := table.AddColumn(name, values); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	return table, nil
}

// parseTimestamp tries the accepted layouts in order.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// parseValue converts one cell to float64, mapping the no-data markers to
// NaN. The second return is false when the cell was missing.
func parseValue(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "nan", "na", "null":
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}
