package benchmark

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"testing"

	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/domain"
)

// SampleCounts defines the sample counts for benchmarking.
var SampleCounts = []int{10, 100, 1000, 10000}

// newSamplingData builds a linear schedule of n samples with noisy
// timings around 50ns per iteration.
func newSamplingData(n int, seed uint64) *domain.SamplingData {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	d := &domain.SamplingData{
		Samples: make([]uint64, n),
		Times:   make([]uint128.Uint128, n),
	}
	for i := range n {
		iters := uint64(i+1) * 1000
		d.Samples[i] = iters
		d.Times[i] = uint128.From64(iters*50 + rng.Uint64N(iters*5))
	}
	return d
}

// averages returns the per-sample averages of d.
func averages(d *domain.SamplingData) []float64 {
	out := make([]float64, d.Len())
	for i, n := range d.Samples {
		out[i] = domain.Float64(d.Times[i]) / float64(n)
	}
	return out
}

// runWithSampleCounts runs a benchmark function with various sample counts.
func runWithSampleCounts(b *testing.B, counts []int, benchFn func(b *testing.B, n int)) {
	for _, n := range counts {
		b.Run(fmt.Sprintf("samples_%d", n), func(b *testing.B) {
			benchFn(b, n)
		})
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
