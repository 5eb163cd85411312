package qc

import "math"

// TestRateOfChange implements QARTOD long-term test 20: a single-timestep
// change of delta or more is an implausible spike and fails.
//
// Differences are taken between consecutive unmasked observations. With
// angular set, values are compass directions in degrees and the difference is
// the minimum of the three candidates obtained by shifting one operand by
// ±360, so 350° followed by 10° is a 20° change rather than 340°. The first
// observation has no predecessor and passes; differences involving a missing
// value are undefined and pass.
func TestRateOfChange(pop Population, delta float64, angular bool) []Flag {
	result := passes(pop.Len())
	values := pop.Values()

	for i := 1; i < len(values); i++ {
		diff := math.Abs(values[i] - values[i-1])
		if angular {
			diff = angularDiff(values[i], values[i-1])
		}
		if diff >= delta {
			result[i] = FlagFail
		}
	}
	return result
}

// angularDiff returns the smallest absolute angle between two compass
// directions, assuming at most one of them sits across the 0/360 divide.
func angularDiff(current, previous float64) float64 {
	d1 := math.Abs(current - previous)
	d2 := math.Abs(current + 360 - previous)
	d3 := math.Abs(current - (previous + 360))
	return math.Min(d1, math.Min(d2, d3))
}
