package bench

import (
	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/core/measure"
)

type (
	// SamplingData is the raw outcome of a sampled run.
	SamplingData = domain.SamplingData
	// TimingData aggregates a plain timer run.
	TimingData = domain.TimingData
	// Summary holds the statistics of a sampled run.
	Summary = analysis.Summary
	// Comparison describes a run relative to the previous one.
	Comparison = analysis.Comparison
	// TimingComparison describes a timer run relative to the previous one.
	TimingComparison = analysis.TimingComparison
	// Verdict classifies a comparison.
	Verdict = analysis.Verdict
	// Policy decides when a change is significant.
	Policy = analysis.Policy
)

// Verdicts.
const (
	Same   = analysis.Same
	Better = analysis.Better
	Worse  = analysis.Worse
)

// AnonymousLabel is used for unlabeled runs and replaces invalid labels.
const AnonymousLabel = domain.AnonymousLabel

// BlackBox returns v unchanged while preventing the compiler from proving
// anything about it, so computations feeding it are not eliminated.
func BlackBox[T any](v T) T {
	return measure.BlackBox(v)
}

// DefaultPolicy returns the default significance policy.
func DefaultPolicy() Policy {
	return analysis.DefaultPolicy()
}
