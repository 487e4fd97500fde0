package analysis

import (
	"math"
	"slices"

	"github.com/aclements/go-moremath/stats"
	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/domain"
)

// Summary is derived from a domain.SamplingData and never persisted. Every
// statistic is over the per-sample average cost in nanoseconds.
type Summary struct {
	// Averages holds elapsed / iterations for each sample, in sample order.
	Averages []float64
	// Elapsed is the total elapsed nanoseconds across all samples.
	Elapsed uint128.Uint128

	Min      float64
	Max      float64
	Mean     float64
	Median   float64
	Variance float64
	StdDev   float64
}

// N returns the number of samples summarized.
func (s Summary) N() int {
	return len(s.Averages)
}

// Summarize computes the per-sample averages of d and reduces them.
//
// The median of an even-length run is the upper of the two middle values,
// without interpolation. Variance uses the n-1 divisor and is 0 for a single
// sample. An empty run yields NaN statistics.
func Summarize(d *domain.SamplingData) Summary {
	s := Summary{
		Averages: make([]float64, len(d.Samples)),
		Elapsed:  uint128.Zero,
	}
	for i, n := range d.Samples {
		el := d.Times[i]
		s.Averages[i] = domain.Float64(el) / float64(n)
		s.Elapsed = s.Elapsed.Add(el)
	}

	if len(s.Averages) == 0 {
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.Median, s.Variance, s.StdDev = nan, nan, nan, nan, nan, nan
		return s
	}

	sample := stats.Sample{Xs: s.Averages}
	s.Min, s.Max = sample.Bounds()
	s.Mean = stats.Mean(s.Averages)
	s.Variance = stats.Variance(s.Averages)
	s.StdDev = math.Sqrt(s.Variance)

	sorted := slices.Clone(s.Averages)
	slices.Sort(sorted)
	s.Median = sorted[len(sorted)/2]
	return s
}
