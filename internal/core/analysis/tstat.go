package analysis

import (
	"math"

	"github.com/aclements/go-moremath/stats"
)

// TStatistic returns Welch's t statistic for a against b:
//
//	(mean(a) - mean(b)) / sqrt(var(a)/len(a) + var(b)/len(b))
//
// with sample variances (n-1 divisor). It is NaN when either side has fewer
// than two points and may be NaN or infinite when both variances are zero.
func TStatistic(a, b []float64) float64 {
	if len(a) < 2 || len(b) < 2 {
		return math.NaN()
	}
	na, nb := float64(len(a)), float64(len(b))
	diff := stats.Mean(a) - stats.Mean(b)
	return diff / math.Sqrt(stats.Variance(a)/na+stats.Variance(b)/nb)
}

// WelchP returns the analytic two-sided p-value of Welch's t-test, or NaN
// when the test is undefined for the inputs.
func WelchP(a, b []float64) float64 {
	res, err := stats.TwoSampleWelchTTest(stats.Sample{Xs: a}, stats.Sample{Xs: b}, stats.LocationDiffers)
	if err != nil {
		return math.NaN()
	}
	return res.P
}
