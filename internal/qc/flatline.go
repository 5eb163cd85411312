package qc

import "math"

// TestFlatline implements QARTOD long-term test 16: runs of near-identical
// consecutive readings indicate a stuck sensor.
//
// A position is part of a flatline of length run when the cumulative absolute
// difference between its value and each of the preceding run-1 values stays
// below eps*(run-1). Completing a run of failRun flags FlagFail; completing a
// run of suspectRun flags FlagSuspect, unless that suspect window sits inside
// a fail-length flat window, in which case fail precedence applies and only
// the fail completion is reported. Positions with insufficient history
// (< run-1 predecessors) cannot satisfy the run condition and pass. Windows
// touching a missing value pass, since the cumulative difference is undefined
// there.
//
// Run lengths below 2 are invalid and are treated as 2; the metadata binder
// clamps and logs these before the test is invoked.
func TestFlatline(pop Population, suspectRun, failRun int, eps float64) []Flag {
	if suspectRun < 2 {
		suspectRun = 2
	}
	if failRun < 2 {
		failRun = 2
	}

	fail := flatRun(pop.Values(), failRun, eps)
	suspect := flatRun(pop.Values(), suspectRun, eps)
	span := failRun - suspectRun

	result := passes(pop.Len())
	for i := range result {
		switch {
		case fail[i]:
			result[i] = FlagFail
		case suspect[i] && !insideFailWindow(fail, i, span):
			result[i] = FlagSuspect
		}
	}
	return result
}

// insideFailWindow reports whether the suspect window ending at i is
// contained in some fail-length flat window. A fail completion at j covers
// the suspect window ending at i exactly when i <= j <= i+span.
func insideFailWindow(fail []bool, i, span int) bool {
	for j := i + 1; j <= i+span && j < len(fail); j++ {
		if fail[j] {
			return true
		}
	}
	return false
}

// flatRun marks positions whose trailing window of runLength values is flat
// within tolerance.
func flatRun(values []float64, runLength int, eps float64) []bool {
	if runLength < 2 {
		runLength = 2
	}

	flat := make([]bool, len(values))
	tolerance := eps * float64(runLength-1)

	for i := runLength - 1; i < len(values); i++ {
		sum := 0.0
		for lag := 1; lag < runLength; lag++ {
			sum += math.Abs(values[i] - values[i-lag])
		}
		// NaN in the window propagates into sum; the comparison below is
		// then false and the position passes.
		flat[i] = sum < tolerance
	}
	return flat
}
