package measure

import (
	"math"
	"time"

	"github.com/yndnr/microbench/internal/telemetry/logger"
)

// Schedule returns the per-sample iteration counts [d, 2d, ..., n*d] for n
// samples, choosing the smallest step d >= 1 such that running the whole
// schedule at meanCost nanoseconds per iteration takes at least target.
//
// A step of 1 is logged at warn level as a shortfall, even for a single
// sample. With more than one sample the count is then reduced one at a time
// until d > 1 or a single sample remains, and the compressed size is logged
// at warn level too.
// meanCost must already be clamped to a positive value.
func Schedule(meanCost float64, numSamples uint64, target time.Duration, log logger.Logger) []uint64 {
	n := max(numSamples, 1)
	d := step(meanCost, n, target)

	if d == 1 {
		log.Warn("unable to complete samples in target time",
			"samples", n,
			"target", target,
			"expected", expected(meanCost, n, d),
		)
	}
	if d == 1 && n > 1 {
		for d == 1 && n > 1 {
			n--
			d = step(meanCost, n, target)
		}
		log.Warn("compressed sample size",
			"samples", n,
			"expected", expected(meanCost, n, d),
		)
	}

	if limit := math.MaxUint64 / n; d > limit {
		d = limit
	}
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i+1) * d
	}
	return out
}

// weight is the number of step units in a schedule of n samples.
func weight(n uint64) float64 {
	return float64(n) * float64(n+1) / 2
}

func step(meanCost float64, n uint64, target time.Duration) uint64 {
	d := math.Ceil(float64(target.Nanoseconds()) / meanCost / weight(n))
	switch {
	case math.IsNaN(d) || d < 1:
		return 1
	case d >= math.MaxUint64:
		return math.MaxUint64
	default:
		return uint64(d)
	}
}

func expected(meanCost float64, n, d uint64) time.Duration {
	ns := weight(n) * float64(d) * meanCost
	if ns >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(ns)
}
