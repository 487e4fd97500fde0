package bench

import (
	"github.com/oklog/ulid/v2"
	"lukechampine.com/uint128"
)

// Result is the outcome of a sampled run.
type Result struct {
	RunID ulid.ULID
	Label string
	// LabelFallback is true when the requested label was invalid and
	// AnonymousLabel was used instead.
	LabelFallback bool
	Config        Config

	// MeanCost is the calibrated cost of one call in nanoseconds, or 0 when
	// calibration was skipped.
	MeanCost float64
	Schedule []uint64
	Data     *SamplingData
	Summary  Summary

	// Previous and Comparison are set when a previous run was found.
	Previous   *Summary
	Comparison *Comparison

	TotalIterations uint128.Uint128
}

// TimingResult is the outcome of a plain timer run.
type TimingResult struct {
	RunID         ulid.ULID
	Label         string
	LabelFallback bool
	Data          TimingData

	Previous   *TimingData
	Comparison *TimingComparison
}
