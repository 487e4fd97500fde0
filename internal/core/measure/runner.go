package measure

import (
	"math"
	"slices"
	"time"

	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/domain"
)

// MaxBatch is the largest batch RunWithSetup can hold: the setup outputs of
// a batch are buffered in one slice.
const MaxBatch uint64 = math.MaxInt

// preallocLimit caps the input buffer reserved up front; larger batches grow
// it while the setup runs.
const preallocLimit = 1 << 20

// Run executes one batch per schedule entry, calling work that many times
// between a single start/stop pair, and returns the schedule alongside the
// elapsed nanoseconds of every batch.
func Run[T any](schedule []uint64, work func() T) *domain.SamplingData {
	data := &domain.SamplingData{
		Samples: slices.Clone(schedule),
		Times:   make([]uint128.Uint128, len(schedule)),
	}
	for i, n := range schedule {
		start := time.Now()
		for j := uint64(0); j < n; j++ {
			BlackBox(work())
		}
		data.Times[i] = domain.Nanos(time.Since(start))
	}
	return data
}

// RunWithSetup is Run for work that consumes an input produced by setup.
//
// All n inputs of a batch are produced before its timer starts, so setup
// cost never reaches the measurement at the price of holding n inputs in
// memory at once.
func RunWithSetup[R, T any](schedule []uint64, setup func() R, work func(R) T) *domain.SamplingData {
	data := &domain.SamplingData{
		Samples: slices.Clone(schedule),
		Times:   make([]uint128.Uint128, len(schedule)),
	}
	var inputs []R
	for i, n := range schedule {
		inputs = slices.Grow(inputs[:0], int(min(n, preallocLimit)))
		for j := uint64(0); j < n; j++ {
			inputs = append(inputs, setup())
		}

		start := time.Now()
		for _, in := range inputs {
			BlackBox(work(BlackBox(in)))
		}
		data.Times[i] = domain.Nanos(time.Since(start))

		clear(inputs)
	}
	return data
}
