package analysis

import (
	"math"

	"github.com/yndnr/microbench/internal/core/domain"
)

// Verdict classifies a change between two runs.
type Verdict int

const (
	// Same means the change is within noise or not significant.
	Same Verdict = iota
	// Better means the mean cost decreased significantly.
	Better
	// Worse means the mean cost increased significantly.
	Worse
)

func (v Verdict) String() string {
	switch v {
	case Better:
		return "better"
	case Worse:
		return "worse"
	default:
		return "same"
	}
}

// Defaults for Policy and the plain timer comparison.
const (
	DefaultNoiseThreshold       = 1.0
	DefaultSignificanceLevel    = 0.05
	DefaultTimingNoiseThreshold = 5.0
)

// Policy decides when a change is reported as significant.
type Policy struct {
	// NoiseThreshold is the minimum absolute mean change, in percent.
	NoiseThreshold float64
	// SignificanceLevel is the maximum bootstrap p-value.
	SignificanceLevel float64
}

// DefaultPolicy returns a 1% noise threshold at a 0.05 significance level.
func DefaultPolicy() Policy {
	return Policy{
		NoiseThreshold:    DefaultNoiseThreshold,
		SignificanceLevel: DefaultSignificanceLevel,
	}
}

// Comparison describes the current run relative to a previous one. Changes
// are relative, in percent, positive when the current run is slower.
type Comparison struct {
	MinChange  float64
	MeanChange float64
	MaxChange  float64

	// T is Welch's t of current against previous averages.
	T float64
	// P is the bootstrap p-value of T.
	P float64
	// WelchP is the analytic Welch p-value, for reference only.
	WelchP float64

	Verdict Verdict
}

// Significant reports whether the comparison is not Same.
func (c Comparison) Significant() bool {
	return c.Verdict != Same
}

// Compare evaluates cur against prev using resamples bootstrap draws.
//
// When either run has fewer than two samples the t-test is skipped: T, P and
// WelchP are NaN and the verdict is Same.
func Compare(cur, prev Summary, resamples int, policy Policy) Comparison {
	c := Comparison{
		MinChange:  percentChange(cur.Min, prev.Min),
		MeanChange: percentChange(cur.Mean, prev.Mean),
		MaxChange:  percentChange(cur.Max, prev.Max),
		T:          math.NaN(),
		P:          math.NaN(),
		WelchP:     math.NaN(),
	}
	if cur.N() < 2 || prev.N() < 2 {
		return c
	}

	c.T = TStatistic(cur.Averages, prev.Averages)
	c.P = PValue(c.T, Resample(cur.Averages, prev.Averages, resamples))
	c.WelchP = WelchP(cur.Averages, prev.Averages)
	c.Verdict = verdict(c.MeanChange, c.P, policy)
	return c
}

func verdict(meanChange, p float64, policy Policy) Verdict {
	if math.Abs(meanChange) < policy.NoiseThreshold || !(p <= policy.SignificanceLevel) {
		return Same
	}
	if meanChange > 0 {
		return Worse
	}
	return Better
}

// TimingComparison describes a plain timer run relative to a previous one.
type TimingComparison struct {
	MinChange  float64
	MeanChange float64
	MaxChange  float64
	Verdict    Verdict
}

// CompareTiming compares two timer aggregates. There is a single sample per
// run, so no test is possible and the verdict depends on the mean change
// alone: at least threshold percent slower is Worse, at least threshold
// percent faster is Better.
func CompareTiming(cur, prev domain.TimingData, threshold float64) TimingComparison {
	c := TimingComparison{
		MinChange:  percentChange(domain.Float64(cur.Min), domain.Float64(prev.Min)),
		MeanChange: percentChange(cur.Mean(), prev.Mean()),
		MaxChange:  percentChange(domain.Float64(cur.Max), domain.Float64(prev.Max)),
	}
	switch {
	case c.MeanChange >= threshold:
		c.Verdict = Worse
	case c.MeanChange <= -threshold:
		c.Verdict = Better
	}
	return c
}

func percentChange(cur, prev float64) float64 {
	return (cur/prev - 1) * 100
}
