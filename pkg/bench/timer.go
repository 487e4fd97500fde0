package bench

import (
	"context"
	"iter"
	"time"

	"github.com/yndnr/microbench/internal/core/domain"
)

// RunTimed returns how long one call of fn took.
func RunTimed(fn func()) time.Duration {
	start := time.Now()
	fn()
	return time.Since(start)
}

// RunTimedTimes calls fn n times, timing each call.
func RunTimedTimes(n uint64, fn func()) TimingData {
	var td TimingData
	for range n {
		start := time.Now()
		fn()
		td.Observe(domain.Nanos(time.Since(start)))
	}
	return td
}

// RunTimedSeq calls fn with every value of seq, timing each call.
func RunTimedSeq[V any](seq iter.Seq[V], fn func(V)) TimingData {
	var td TimingData
	for v := range seq {
		start := time.Now()
		fn(v)
		td.Observe(domain.Nanos(time.Since(start)))
	}
	return td
}

// Timed wraps seq so that producing each value is timed. When seq is
// exhausted the aggregate is printed under label. Stopping early reports
// nothing.
func Timed[V any](label string, seq iter.Seq[V]) iter.Seq[V] {
	return TimedWith(Default(), label, seq, false)
}

// TimedPersisted is Timed with the aggregate compared against, and then
// stored as, the previous run of label.
func TimedPersisted[V any](label string, seq iter.Seq[V]) iter.Seq[V] {
	return TimedWith(Default(), label, seq, true)
}

// TimedWith is Timed on engine e. With persist the aggregate is compared and
// stored.
func TimedWith[V any](e *Engine, label string, seq iter.Seq[V], persist bool) iter.Seq[V] {
	return func(yield func(V) bool) {
		var td TimingData
		start := time.Now()
		for v := range seq {
			td.Observe(domain.Nanos(time.Since(start)))
			if !yield(v) {
				return
			}
			start = time.Now()
		}
		e.ReportTiming(context.Background(), label, td, persist)
	}
}

// ReportTiming presents a plain timer aggregate under label and, with
// persist, compares it against and stores it as the previous run.
func (e *Engine) ReportTiming(ctx context.Context, label string, td TimingData, persist bool) *TimingResult {
	r := e.begin(label)
	res := &TimingResult{
		RunID:         r.id,
		Label:         r.label,
		LabelFallback: r.fallback,
		Data:          td,
	}
	e.reporter(persist, r.log).ReportTiming(ctx, res)

	if e.metrics != nil {
		e.metrics.ObserveTiming(res.Label, td)
		e.flushMetrics(r.log)
	}
	return res
}
