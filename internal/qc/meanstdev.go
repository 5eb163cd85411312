package qc

import "math"

// TestMeanStdev implements QARTOD long-term test 15: values further than
// numStdevs sample standard deviations from the population mean fail.
//
// Mean and standard deviation are computed over the unmasked, non-missing
// observations only. Degenerate populations follow a documented policy:
// fewer than 2 usable samples means the spread cannot be estimated, so every
// observation passes; a zero-variance population collapses the acceptance
// band onto the mean, so only values exactly equal to the mean pass.
// Missing observations always pass this test (they are flagged by
// TestMissing instead).
func TestMeanStdev(pop Population, numStdevs float64) []Flag {
	result := passes(pop.Len())

	mean, stdev, n := meanStdev(pop.Values())
	if n < 2 {
		return result
	}

	lower := mean - numStdevs*stdev
	upper := mean + numStdevs*stdev

	for i, v := range pop.Values() {
		if math.IsNaN(v) {
			continue
		}
		if v < lower || v > upper {
			result[i] = FlagFail
		}
	}
	return result
}

// meanStdev computes the mean and sample standard deviation over the
// non-missing values, returning the usable sample count.
func meanStdev(values []float64) (mean, stdev float64, n int) {
	sum := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, 0, 0
	}
	mean = sum / float64(n)

	if n < 2 {
		return mean, 0, n
	}

	sumSquared := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sumSquared += (v - mean) * (v - mean)
	}
	stdev = math.Sqrt(sumSquared / float64(n-1))
	return mean, stdev, n
}
