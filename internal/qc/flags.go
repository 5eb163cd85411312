package qc

// Flag is a QARTOD quality flag. Higher values always denote worse quality,
// so combining flags for one observation reduces to taking the maximum.
type Flag int

const (
	// FlagPass marks data that passed the test.
	FlagPass Flag = 0
	// FlagSuspect marks data of doubtful quality.
	FlagSuspect Flag = 3
	// FlagFail marks data that failed the test.
	FlagFail Flag = 4
	// FlagMissing marks absent data.
	FlagMissing Flag = 8
)

// String returns the flag name used in logs.
func (f Flag) String() string {
	switch f {
	case FlagPass:
		return "pass"
	case FlagSuspect:
		return "suspect"
	case FlagFail:
		return "fail"
	case FlagMissing:
		return "missing"
	default:
		return "unknown"
	}
}

// Worst returns the worse of two flags.
func Worst(a, b Flag) Flag {
	if b > a {
		return b
	}
	return a
}

// Coalesce reduces the per-test flags for one observation to a single
// overall flag via worst-case selection. An empty input coalesces to pass.
func Coalesce(flags ...Flag) Flag {
	result := FlagPass
	for _, f := range flags {
		result = Worst(result, f)
	}
	return result
}

// passes returns a flag slice of the given length initialized to FlagPass.
func passes(n int) []Flag {
	return make([]Flag, n)
}
