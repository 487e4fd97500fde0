// Package measure implements the measurement pipeline: warm-up calibration,
// iteration scheduling and the sampling runner.
//
// The pipeline runs on the calling goroutine and never interrupts the work
// under test. Every value flowing into or out of the work passes through
// BlackBox so the compiler cannot eliminate it.
package measure
