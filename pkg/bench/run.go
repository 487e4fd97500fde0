package bench

import (
	"context"

	"github.com/oklog/ulid/v2"
	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/core/measure"
	"github.com/yndnr/microbench/internal/telemetry/logger"
)

// run is the per-invocation state shared by the sampled and timed paths.
type run struct {
	id       ulid.ULID
	label    string
	fallback bool
	log      logger.Logger
}

func (e *Engine) begin(label string) run {
	r := run{id: ulid.Make()}
	resolved, err := domain.ResolveLabel(label)
	if err != nil {
		e.log.Warn("invalid label, falling back to anonymous",
			"label", label,
			"error", err,
		)
		r.fallback = true
	}
	r.label = resolved
	r.log = logger.ForRun(e.log, r.id.String(), resolved)
	return r
}

// plan calibrates work and returns the iteration schedule and mean cost.
func (e *Engine) plan(r run, cfg Config, work func()) ([]uint64, float64) {
	if cfg.MaxIterations > 0 {
		r.log.Debug("fixed iteration count, skipping warm-up", "iterations", cfg.MaxIterations)
		return []uint64{cfg.MaxIterations}, 0
	}

	e.console.WarmUp(r.label, cfg.WarmUpTime)
	cal := measure.Calibrate(work, cfg.WarmUpTime)
	schedule := measure.Schedule(cal.ClampedMeanCost(), cfg.NumSamples, cfg.MeasurementTime, r.log)

	planned := uint128.Zero
	for _, n := range schedule {
		planned = planned.Add64(n)
	}
	e.console.WarmUpDone(r.label, cal.MeanCost(), planned)
	r.log.Debug("calibrated",
		"warm_up_iterations", cal.Iterations.String(),
		"mean_cost_ns", cal.MeanCost(),
		"samples", len(schedule),
	)
	return schedule, cal.MeanCost()
}

func (e *Engine) finish(ctx context.Context, r run, cfg Config, schedule []uint64, meanCost float64, data *SamplingData) *Result {
	res := &Result{
		RunID:           r.id,
		Label:           r.label,
		LabelFallback:   r.fallback,
		Config:          cfg,
		MeanCost:        meanCost,
		Schedule:        schedule,
		Data:            data,
		Summary:         analysis.Summarize(data),
		TotalIterations: data.TotalIterations(),
	}
	e.reporter(cfg.DumpResultsToDisk, r.log).ReportSampling(ctx, res)

	if e.metrics != nil {
		e.metrics.ObserveRun(res.Label, res.Summary, res.Comparison)
		e.metrics.AddIterations(res.Label, domain.Float64(res.TotalIterations))
		e.flushMetrics(r.log)
	}
	return res
}

func (e *Engine) flushMetrics(log logger.Logger) {
	if e.textfile == "" {
		return
	}
	if err := e.metrics.WriteTextfile(e.textfile); err != nil {
		log.Warn("failed to write metrics textfile", "path", e.textfile, "error", err)
	}
}

// Run measures work under label with cfg. The returned error is non-nil only
// for an invalid cfg, in which case nothing runs; storage problems are
// logged instead.
func Run[T any](ctx context.Context, e *Engine, label string, cfg Config, work func() T) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := e.begin(label)
	schedule, cost := e.plan(r, cfg, func() { measure.BlackBox(work()) })
	data := measure.Run(schedule, work)
	return e.finish(ctx, r, cfg, schedule, cost, data), nil
}

// RunWithSetup measures work on a fresh input from setup per call. Setup
// runs outside the timed region during sampling; the warm-up estimate
// includes it.
func RunWithSetup[R, T any](ctx context.Context, e *Engine, label string, cfg Config, setup func() R, work func(R) T) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	r := e.begin(label)
	schedule, cost := e.plan(r, cfg, func() { measure.BlackBox(work(measure.BlackBox(setup()))) })
	data := measure.RunWithSetup(schedule, setup, work)
	return e.finish(ctx, r, cfg, schedule, cost, data), nil
}
