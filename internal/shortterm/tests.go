package shortterm

import "math"

// RangeLimits holds the instrument measurement range and the operator's
// local range for the displacement checks. Values outside the instrument
// range fail, values outside the local range are suspect.
type RangeLimits struct {
	InstrumentMin float64
	InstrumentMax float64
	LocalMin      float64
	LocalMax      float64
}

// DefaultRangeLimits returns the Datawell displacement limits (±750 cm
// instrument, ±500 cm local) used when no override is configured.
func DefaultRangeLimits() RangeLimits {
	return RangeLimits{
		InstrumentMin: -750,
		InstrumentMax: 750,
		LocalMin:      -500,
		LocalMax:      500,
	}
}

// LongestMissingRun returns the length of the longest run of consecutive
// missing values in the series.
func LongestMissingRun(values []float64) int {
	longest, current := 0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

// MissingRunFlag implements test 9: a file-level flag of 4 when the longest
// missing run reaches limit consecutive values, 1 otherwise.
func MissingRunFlag(values []float64, limit int) int {
	if LongestMissingRun(values) >= limit {
		return 4
	}
	return 1
}

// StdevOutliers implements test 10: true per value where the distance from
// the series mean exceeds numStdevs sample standard deviations. Statistics
// skip missing values; a missing value is never an outlier.
func StdevOutliers(values []float64, numStdevs float64) []bool {
	mean, stdev := meanStdev(values)

	result := make([]bool, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		result[i] = math.Abs(v-mean) > numStdevs*stdev
	}
	return result
}

// RangeFlags implements test 11: per-value flag of 4 outside the instrument
// range, 3 outside the local range, 1 otherwise. Missing values flag 1; the
// missing-run check owns absence.
func RangeFlags(values []float64, limits RangeLimits) []int {
	result := make([]int, len(values))
	for i, v := range values {
		switch {
		case v > limits.InstrumentMax || v < limits.InstrumentMin:
			result[i] = 4
		case v > limits.LocalMax || v < limits.LocalMin:
			result[i] = 3
		default:
			result[i] = 1
		}
	}
	return result
}

func meanStdev(values []float64) (mean, stdev float64) {
	sum, n := 0.0, 0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, 0
	}
	mean = sum / float64(n)
	if n < 2 {
		return mean, 0
	}

	sumSquared := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sumSquared += (v - mean) * (v - mean)
	}
	stdev = math.Sqrt(sumSquared / float64(n-1))
	return mean, stdev
}
