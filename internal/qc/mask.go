package qc

import (
	"fmt"

	"buoyqc/internal/timeseries"
)

// Population is the working set of observations for one parameter after
// masking. It carries the values that remain eligible for testing together
// with their original row positions, so test results can be written back into
// a full-length report column without mutating the source table.
type Population struct {
	positions []int
	values    []float64
}

// Len returns the number of unmasked observations.
func (p Population) Len() int {
	return len(p.values)
}

// Values returns the unmasked values in original order. The slice is shared;
// callers must not modify it.
func (p Population) Values() []float64 {
	return p.values
}

// Position returns the original row index of the i-th unmasked observation.
func (p Population) Position(i int) int {
	return p.positions[i]
}

// Scatter expands a flag slice aligned with the population back to a
// full-length column of n rows. Masked rows keep the initialized pass flag.
func (p Population) Scatter(flags []Flag, n int) []Flag {
	column := passes(n)
	for i, f := range flags {
		column[p.positions[i]] = f
	}
	return column
}

// MaskPriorFailures builds the working population for a parameter. Rows whose
// prior cumulative flag (the "<param>_qc" column) is worse than suspect are
// excluded from re-testing; when no prior column exists every row is
// eligible.
func MaskPriorFailures(table *timeseries.Table, param string) (Population, error) {
	values, err := table.Column(param)
	if err != nil {
		return Population{}, fmt.Errorf("mask %s: %w", param, err)
	}

	qcColumn := param + "_qc"
	if !table.HasColumn(qcColumn) {
		positions := make([]int, len(values))
		for i := range positions {
			positions[i] = i
		}
		return Population{positions: positions, values: values}, nil
	}

	prior, err := table.Column(qcColumn)
	if err != nil {
		return Population{}, fmt.Errorf("mask %s: %w", param, err)
	}

	var positions []int
	var kept []float64
	for i, v := range values {
		if prior[i] > float64(FlagSuspect) {
			continue
		}
		positions = append(positions, i)
		kept = append(kept, v)
	}

	return Population{positions: positions, values: kept}, nil
}
