package qc

// TestFeasibleRange implements QARTOD long-term test 19: values outside the
// operator-configured plausible band [minValue, maxValue] are flagged. For
// parameters designated critical the flag is FlagFail, otherwise FlagSuspect.
// Missing values pass; NaN never compares outside the band.
func TestFeasibleRange(pop Population, minValue, maxValue float64, critical bool) []Flag {
	outside := FlagSuspect
	if critical {
		outside = FlagFail
	}

	result := passes(pop.Len())
	for i, v := range pop.Values() {
		if v < minValue || v > maxValue {
			result[i] = outside
		}
	}
	return result
}
