package domain

import "lukechampine.com/uint128"

// TimingData aggregates a plain timer run: the fastest and slowest single
// call, the total elapsed time, and the number of calls, all in nanoseconds
// or counts.
type TimingData struct {
	Min        uint128.Uint128
	Max        uint128.Uint128
	Elapsed    uint128.Uint128
	Iterations uint128.Uint128
}

// Mean returns the mean nanoseconds per call, or 0 for an empty run.
func (t TimingData) Mean() float64 {
	if t.Iterations.IsZero() {
		return 0
	}
	return Float64(t.Elapsed) / Float64(t.Iterations)
}

// Observe folds one call of elapsed nanoseconds into t.
func (t *TimingData) Observe(elapsed uint128.Uint128) {
	if t.Iterations.IsZero() || elapsed.Cmp(t.Min) < 0 {
		t.Min = elapsed
	}
	if elapsed.Cmp(t.Max) > 0 {
		t.Max = elapsed
	}
	t.Elapsed = t.Elapsed.Add(elapsed)
	t.Iterations = t.Iterations.Add64(1)
}
