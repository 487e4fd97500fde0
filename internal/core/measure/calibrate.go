package measure

import (
	"time"

	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/domain"
)

// Calibrate runs work in batches of 1, 2, 4, ... until the accumulated
// elapsed time reaches budget. At least one batch of one call always runs.
//
// The batch size is an unsigned 64-bit value and wraps after 64 doublings,
// which only near-zero-cost work can reach.
func Calibrate(work func(), budget time.Duration) domain.CalibrationResult {
	var (
		batch      uint64 = 1
		iterations        = uint128.Zero
		elapsed    time.Duration
	)
	for {
		start := time.Now()
		for i := uint64(0); i < batch; i++ {
			work()
		}
		elapsed += time.Since(start)
		iterations = iterations.AddWrap64(batch)
		if elapsed >= budget {
			break
		}
		batch *= 2
	}
	return domain.CalibrationResult{
		Iterations: iterations,
		Elapsed:    elapsed,
	}
}
