// Package shortterm implements the stateless single-pass QARTOD checks run
// against raw buoy displacement files (Heave, North, West): the
// missing-run-length check (test 9), the per-value standard-deviation
// outlier check (test 10) and the instrument/local range check (test 11).
//
// Unlike the long-term battery these tests carry no masking and no station
// metadata coupling, and no cross-parameter join point exists, so parameters
// are processed concurrently.
package shortterm
