package qc

import "math"

// TestMissing flags absent observations. No configuration.
//
// Returns one flag per unmasked observation: FlagMissing where the value is
// the no-data marker, FlagPass otherwise.
func TestMissing(pop Population) []Flag {
	result := passes(pop.Len())
	for i, v := range pop.Values() {
		if math.IsNaN(v) {
			result[i] = FlagMissing
		}
	}
	return result
}
