package qc

import (
	"fmt"
	"math"
	"strconv"

	"buoyqc/internal/exporter"
)

// DetailRows formats the detail report as a header row plus one record per
// observation, index column first. Missing raw values render as empty cells.
func DetailRows(r *Report) ([]string, [][]string) {
	return reportRows(r, r.DetailColumns())
}

// CleanRows formats the clean projection: raw values plus coalesced columns.
func CleanRows(r *Report) ([]string, [][]string) {
	return reportRows(r, r.CleanColumns())
}

// SaveDetailCSV writes the full per-test detail report.
func SaveDetailCSV(r *Report, writer *exporter.CSVWriter, path string) error {
	headers, records := DetailRows(r)
	if err := writer.WriteSimpleCSV(path, headers, records); err != nil {
		return fmt.Errorf("save detail report: %w", err)
	}
	return nil
}

// SaveCleanCSV writes the reduced clean report.
func SaveCleanCSV(r *Report, writer *exporter.CSVWriter, path string) error {
	headers, records := CleanRows(r)
	if err := writer.WriteSimpleCSV(path, headers, records); err != nil {
		return fmt.Errorf("save clean report: %w", err)
	}
	return nil
}

func reportRows(r *Report, columns []string) ([]string, [][]string) {
	headers := append([]string{r.IndexName}, columns...)

	records := make([][]string, r.Len())
	for i := 0; i < r.Len(); i++ {
		record := make([]string, 0, len(headers))
		record = append(record, r.Labels[i])
		for _, column := range columns {
			record = append(record, r.cell(column, i))
		}
		records[i] = record
	}
	return headers, records
}

// cell renders one report cell. Raw parameter columns are floats with NaN as
// an empty cell; every other column is an integer flag.
func (r *Report) cell(column string, i int) string {
	if raw, ok := r.Raw[column]; ok {
		if math.IsNaN(raw[i]) {
			return ""
		}
		return strconv.FormatFloat(raw[i], 'g', -1, 64)
	}
	if flags, ok := r.Tests[column]; ok {
		return strconv.Itoa(int(flags[i]))
	}
	for _, param := range r.Params {
		if column == param+"_qc" {
			return strconv.Itoa(int(r.QC[param][i]))
		}
	}
	return ""
}
