package command

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/infra/fswatch"
	"github.com/yndnr/microbench/internal/infra/shutdown"
	"github.com/yndnr/microbench/internal/report"
	"github.com/yndnr/microbench/internal/storage"
	"github.com/yndnr/microbench/internal/telemetry/metric"
)

// WatchCommand returns the watch command.
func WatchCommand() *cli.Command {
	return &cli.Command{
		Name:      "watch",
		Usage:     "Print a comparison every time a new run of LABEL is stored",
		ArgsUsage: "LABEL",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "metrics-addr",
				Usage: "Serve Prometheus metrics of the watched label on ADDR (e.g. :9464)",
			},
			&cli.DurationFlag{
				Name:  "shutdown-timeout",
				Value: 5 * time.Second,
				Usage: "Grace period for stopping the metrics server",
			},
		},
		Action: watchLabel,
	}
}

// labelWatcher re-reads a label whenever one of its current slots changes.
type labelWatcher struct {
	env     *Env
	store   *storage.Store
	label   string
	metrics *metric.Registry
	console *report.Console

	mu sync.Mutex
}

// refresh prints the stored run behind path and its comparison with the
// previous run.
func (w *labelWatcher) refresh(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ctx := context.Background()
	log := w.env.Log.With("label", w.label, "path", path)

	switch storage.Slot(filepath.Base(path)) {
	case storage.CurrentSample:
		cur, err := w.store.ReadSampling(ctx, w.label)
		if err != nil {
			log.Warn("failed to read sample", "error", err)
			return
		}
		sum := analysis.Summarize(cur)
		w.console.SampleHeader(w.label, cur.TotalIterations(), sum.Elapsed, sum.N())
		w.console.Summary(sum)

		var cmp *analysis.Comparison
		if old, err := w.store.ReadOldSampling(ctx, w.label); err == nil {
			c := analysis.Compare(sum, analysis.Summarize(old), w.env.Config.Bench.NumResamples, w.env.Config.Compare.Policy())
			cmp = &c
			w.console.Comparison(c)
		} else if !errors.Is(err, domain.ErrNoResult) {
			log.Warn("failed to read previous sample", "error", err)
		}
		if w.metrics != nil {
			w.metrics.ObserveRun(w.label, sum, cmp)
		}

	case storage.CurrentResults:
		cur, err := w.store.ReadTiming(ctx, w.label)
		if err != nil {
			log.Warn("failed to read results", "error", err)
			return
		}
		w.console.TimerHeader(w.label, cur)
		w.console.TimerSummary(cur)
		if old, err := w.store.ReadOldTiming(ctx, w.label); err == nil {
			w.console.TimingComparison(analysis.CompareTiming(cur, old, w.env.Config.Compare.TimingNoiseThreshold))
		}
		if w.metrics != nil {
			w.metrics.ObserveTiming(w.label, cur)
		}
	}
}

// startWatch begins watching the current slots of label. The returned
// watcher must be stopped by the caller.
func startWatch(e *Env, label string, metrics *metric.Registry) (*fswatch.Watcher, error) {
	store, err := e.Store()
	if err != nil {
		return nil, err
	}
	fb, ok := store.Backend().(*storage.FileBackend)
	if !ok {
		return nil, fmt.Errorf("watch requires the %q backend", storage.BackendFile)
	}

	dir := filepath.Join(fb.Root(), label)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}

	fw, err := fswatch.New(fswatch.WithLogger(e.Log))
	if err != nil {
		return nil, err
	}
	for _, slot := range []storage.Slot{storage.CurrentSample, storage.CurrentResults} {
		if err := fw.Watch(fb.Path(label, slot)); err != nil {
			_ = fw.Stop()
			return nil, err
		}
	}

	lw := &labelWatcher{
		env:     e,
		store:   store,
		label:   label,
		metrics: metrics,
		console: report.NewConsole(e.Out),
	}
	fw.OnChange(lw.refresh)
	fw.StartAsync()
	return fw, nil
}

func watchLabel(c *cli.Context) error {
	e, err := env(c)
	if err != nil {
		return err
	}
	l, err := label(c)
	if err != nil {
		return err
	}

	h := shutdown.NewHandler(c.Duration("shutdown-timeout"), shutdown.WithLogger(e.Log))
	ctx, stop := h.Context(c.Context)
	defer stop()

	var reg *metric.Registry
	if addr := c.String("metrics-addr"); addr != "" {
		reg = metric.NewRegistry().WithRuntime()
		mux := http.NewServeMux()
		mux.Handle("/metrics", reg.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				e.Log.Error("metrics server failed", "addr", addr, "error", err)
				stop()
			}
		}()
		h.OnShutdown(srv.Shutdown)
		e.Log.Info("serving metrics", "addr", addr)
	}

	fw, err := startWatch(e, l, reg)
	if err != nil {
		stop()
		_ = h.Wait(ctx)
		return err
	}
	h.OnShutdown(func(context.Context) error { return fw.Stop() })

	fmt.Fprintf(e.Out, "watching %s in %s (Ctrl-C to stop)\n", l, e.Dir())
	return h.Wait(ctx)
}
