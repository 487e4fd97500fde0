package metric

import (
	"math"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/core/domain"
)

const namespace = "microbench"

// Registry holds all benchmark metrics.
type Registry struct {
	registry *prometheus.Registry

	MeanNs       *prometheus.GaugeVec
	MedianNs     *prometheus.GaugeVec
	StdDevNs     *prometheus.GaugeVec
	Samples      *prometheus.GaugeVec
	PValue       *prometheus.GaugeVec
	MeanChange   *prometheus.GaugeVec
	SampleNs     *prometheus.HistogramVec
	Iterations   *prometheus.CounterVec
	Runs         *prometheus.CounterVec
	TimedMeanNs  *prometheus.GaugeVec
	TimedElapsed *prometheus.CounterVec
}

func gauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, []string{"label"})
}

// NewRegistry creates a registry with every benchmark metric registered.
func NewRegistry() *Registry {
	r := &Registry{
		registry:   prometheus.NewRegistry(),
		MeanNs:     gauge("mean_ns", "Mean time per iteration of the latest run, in nanoseconds."),
		MedianNs:   gauge("median_ns", "Median per-sample time per iteration of the latest run, in nanoseconds."),
		StdDevNs:   gauge("stddev_ns", "Standard deviation of per-sample averages of the latest run, in nanoseconds."),
		Samples:    gauge("samples", "Number of samples collected in the latest run."),
		PValue:     gauge("p_value", "Bootstrap p-value of the latest comparison."),
		MeanChange: gauge("mean_change_percent", "Relative change of the mean against the previous run, in percent."),
		SampleNs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sample_ns",
			Help:      "Distribution of per-sample average time per iteration, in nanoseconds.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 16),
		}, []string{"label"}),
		Iterations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Iterations executed across measured samples.",
		}, []string{"label"}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed runs by comparison verdict.",
		}, []string{"label", "verdict"}),
		TimedMeanNs: gauge("timed_mean_ns", "Mean time per call of the latest plain timer run, in nanoseconds."),
		TimedElapsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timed_elapsed_ns_total",
			Help:      "Total time spent in plain timer runs, in nanoseconds.",
		}, []string{"label"}),
	}

	r.registry.MustRegister(
		r.MeanNs, r.MedianNs, r.StdDevNs, r.Samples, r.PValue, r.MeanChange,
		r.SampleNs, r.Iterations, r.Runs, r.TimedMeanNs, r.TimedElapsed,
	)
	return r
}

// WithRuntime adds the Go runtime and process collectors.
func (r *Registry) WithRuntime() *Registry {
	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRun records the summary of a run and, when present, its comparison.
func (r *Registry) ObserveRun(label string, s analysis.Summary, cmp *analysis.Comparison) {
	r.MeanNs.WithLabelValues(label).Set(s.Mean)
	r.MedianNs.WithLabelValues(label).Set(s.Median)
	r.StdDevNs.WithLabelValues(label).Set(s.StdDev)
	r.Samples.WithLabelValues(label).Set(float64(s.N()))

	hist := r.SampleNs.WithLabelValues(label)
	for _, avg := range s.Averages {
		hist.Observe(avg)
	}

	verdict := "none"
	if cmp != nil {
		verdict = cmp.Verdict.String()
		if !math.IsNaN(cmp.P) {
			r.PValue.WithLabelValues(label).Set(cmp.P)
		}
		r.MeanChange.WithLabelValues(label).Set(cmp.MeanChange)
	}
	r.Runs.WithLabelValues(label, verdict).Inc()
}

// AddIterations increments the iteration counter of label.
func (r *Registry) AddIterations(label string, n float64) {
	r.Iterations.WithLabelValues(label).Add(n)
}

// ObserveTiming records a plain timer run.
func (r *Registry) ObserveTiming(label string, t domain.TimingData) {
	r.TimedMeanNs.WithLabelValues(label).Set(t.Mean())
	r.TimedElapsed.WithLabelValues(label).Add(domain.Float64(t.Elapsed))
}

// Gatherer returns the underlying gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler returns an HTTP handler serving the registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// WriteTextfile atomically writes the registry in text exposition format
// to path, for the node-exporter textfile collector.
func (r *Registry) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

var (
	globalRegistry *Registry
	globalOnce     sync.Once
)

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		globalRegistry = NewRegistry()
	})
	return globalRegistry
}
