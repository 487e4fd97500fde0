package domain

import (
	"math"
	"slices"
	"time"

	"lukechampine.com/uint128"
)

// SamplingData is the raw outcome of one benchmark run: the iteration count
// of every sample and, index-aligned, the elapsed nanoseconds of that batch.
type SamplingData struct {
	Samples []uint64
	Times   []uint128.Uint128
}

// Len returns the number of samples.
func (d *SamplingData) Len() int {
	return len(d.Samples)
}

// Validate checks that Samples and Times are index-aligned.
func (d *SamplingData) Validate() error {
	if len(d.Samples) != len(d.Times) {
		return ErrMalformedData.Detailf("%d samples but %d times", len(d.Samples), len(d.Times))
	}
	return nil
}

// Equal reports whether d and o hold the same samples and times.
func (d *SamplingData) Equal(o *SamplingData) bool {
	if d == nil || o == nil {
		return d == o
	}
	return slices.Equal(d.Samples, o.Samples) && slices.Equal(d.Times, o.Times)
}

// TotalIterations sums the iteration counts of every sample.
func (d *SamplingData) TotalIterations() uint128.Uint128 {
	total := uint128.Zero
	for _, n := range d.Samples {
		total = total.Add64(n)
	}
	return total
}

// CalibrationResult is the outcome of the warm-up phase.
type CalibrationResult struct {
	Iterations uint128.Uint128
	Elapsed    time.Duration
}

// MinMeanCost is the floor applied to calibrated per-iteration cost, in
// nanoseconds. Work that the compiler reduced to nothing would otherwise
// produce a zero cost and an unbounded schedule.
const MinMeanCost = 1.0

// MeanCost returns the mean nanoseconds per iteration, unclamped.
func (c CalibrationResult) MeanCost() float64 {
	if c.Iterations.IsZero() {
		return math.Inf(1)
	}
	return float64(c.Elapsed.Nanoseconds()) / Float64(c.Iterations)
}

// ClampedMeanCost returns MeanCost floored at MinMeanCost.
func (c CalibrationResult) ClampedMeanCost() float64 {
	return math.Max(c.MeanCost(), MinMeanCost)
}

// Float64 converts a 128-bit value to the nearest float64.
func Float64(u uint128.Uint128) float64 {
	return float64(u.Hi)*0x1p64 + float64(u.Lo)
}

// Nanos converts a non-negative duration to a 128-bit nanosecond count.
// Negative durations map to zero.
func Nanos(d time.Duration) uint128.Uint128 {
	if d < 0 {
		return uint128.Zero
	}
	return uint128.From64(uint64(d))
}
