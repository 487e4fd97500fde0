// Package domain defines the core value types of microbench.
//
// The types here carry no IO dependencies:
//
//   - SamplingData: iteration counts and elapsed times of one run
//   - CalibrationResult: outcome of the warm-up phase
//   - TimingData: aggregate of a plain timer run
//   - Label: validation of the key that partitions persisted results
//   - Errors: coded domain errors shared by every layer
//
// Elapsed times and iteration totals are 128-bit unsigned values so that
// aggregates never overflow during long runs.
package domain
