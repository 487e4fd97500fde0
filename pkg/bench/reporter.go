package bench

import (
	"context"
	"errors"

	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/report"
	"github.com/yndnr/microbench/internal/storage"
	"github.com/yndnr/microbench/internal/telemetry/logger"
)

// Reporter presents finished runs.
type Reporter interface {
	ReportSampling(ctx context.Context, r *Result)
	ReportTiming(ctx context.Context, r *TimingResult)
}

// SimpleReporter prints results without reading or writing history.
type SimpleReporter struct {
	Console *report.Console
}

// ReportSampling prints the header and statistics of r.
func (s SimpleReporter) ReportSampling(_ context.Context, r *Result) {
	s.Console.SampleHeader(r.Label, r.TotalIterations, r.Summary.Elapsed, r.Summary.N())
	s.Console.Summary(r.Summary)
}

// ReportTiming prints the header and statistics of r.
func (s SimpleReporter) ReportTiming(_ context.Context, r *TimingResult) {
	s.Console.TimerHeader(r.Label, r.Data)
	s.Console.TimerSummary(r.Data)
}

// ComparingReporter prints results, compares them with the previous run of
// the same label and stores them as the new current run. It fills the
// Previous and Comparison fields of the results it reports.
//
// A nil Store disables the comparison and the write.
type ComparingReporter struct {
	SimpleReporter

	Store           *storage.Store
	Log             logger.Logger
	Path            string
	Policy          Policy
	TimingThreshold float64
}

func (c ComparingReporter) warn(msg, label string, err error) {
	c.Log.Warn(msg, "label", label, "path", c.Path, "error", err)
}

// ReportSampling prints r, compares it with the stored sample and replaces
// the stored sample with r.
func (c ComparingReporter) ReportSampling(ctx context.Context, r *Result) {
	c.SimpleReporter.ReportSampling(ctx, r)
	if c.Store == nil {
		return
	}

	prev, err := c.Store.ReadSampling(ctx, r.Label)
	switch {
	case err == nil:
		ps := analysis.Summarize(prev)
		cmp := analysis.Compare(r.Summary, ps, r.Config.NumResamples, c.Policy)
		r.Previous = &ps
		r.Comparison = &cmp
		c.Console.Comparison(cmp)
	case errors.Is(err, domain.ErrNoResult):
	default:
		c.warn("failed to read previous sample", r.Label, err)
	}

	if err := c.Store.WriteSampling(ctx, r.Label, r.Data); err != nil {
		c.warn("failed to persist sample", r.Label, err)
	}
}

// ReportTiming prints r, compares it with the stored timing and replaces the
// stored timing with r.
func (c ComparingReporter) ReportTiming(ctx context.Context, r *TimingResult) {
	c.SimpleReporter.ReportTiming(ctx, r)
	if c.Store == nil {
		return
	}

	prev, err := c.Store.ReadTiming(ctx, r.Label)
	switch {
	case err == nil:
		cmp := analysis.CompareTiming(r.Data, prev, c.TimingThreshold)
		r.Previous = &prev
		r.Comparison = &cmp
		c.Console.TimingComparison(cmp)
	case errors.Is(err, domain.ErrNoResult):
	default:
		c.warn("failed to read previous results", r.Label, err)
	}

	if err := c.Store.WriteTiming(ctx, r.Label, r.Data); err != nil {
		c.warn("failed to persist results", r.Label, err)
	}
}

// reporter selects the reporter for a run.
func (e *Engine) reporter(persist bool, log logger.Logger) Reporter {
	simple := SimpleReporter{Console: e.console}
	if !persist {
		return simple
	}
	return ComparingReporter{
		SimpleReporter:  simple,
		Store:           e.Store(),
		Log:             log,
		Path:            e.ResultsDir(),
		Policy:          e.policy,
		TimingThreshold: e.timingThreshold,
	}
}
