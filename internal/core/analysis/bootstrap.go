package analysis

import (
	"math"
	"math/rand/v2"
)

// Resample builds an empirical null distribution of the t statistic by
// pooling a and b and drawing times resamples of the pooled size with
// replacement, each split back into groups of len(a) and len(b).
//
// A fresh generator seeded from the wall clock is created per call.
func Resample(a, b []float64, times int) []float64 {
	return resample(newRand(), a, b, times)
}

func resample(r *rand.Rand, a, b []float64, times int) []float64 {
	pooled := make([]float64, 0, len(a)+len(b))
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)
	if len(pooled) == 0 || times <= 0 {
		return nil
	}

	dist := make([]float64, times)
	draw := make([]float64, len(pooled))
	for i := range dist {
		for j := range draw {
			draw[j] = pooled[r.IntN(len(pooled))]
		}
		dist[i] = TStatistic(draw[:len(a)], draw[len(a):])
	}
	return dist
}

// PValue returns the two-tailed rank p-value of observed within dist:
//
//	2 * min(k, n-k) / n
//
// where k counts the entries strictly below observed. NaN entries, which a
// zero-variance resample produces, are left out of both k and n. The result
// is NaN when observed is NaN or no usable entry remains.
func PValue(observed float64, dist []float64) float64 {
	if math.IsNaN(observed) {
		return math.NaN()
	}
	var below, n int
	for _, t := range dist {
		if math.IsNaN(t) {
			continue
		}
		n++
		if t < observed {
			below++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return 2 * float64(min(below, n-below)) / float64(n)
}
