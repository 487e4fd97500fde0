package bench

import (
	"io"
	"os"
	"sync"

	"github.com/yndnr/microbench/internal/config"
	"github.com/yndnr/microbench/internal/core/analysis"
	"github.com/yndnr/microbench/internal/infra/targetdir"
	"github.com/yndnr/microbench/internal/report"
	"github.com/yndnr/microbench/internal/storage"
	"github.com/yndnr/microbench/internal/telemetry/logger"
	"github.com/yndnr/microbench/internal/telemetry/metric"
)

// Engine runs measurements and owns their output, logging, persistence and
// metrics. The zero value is not usable; create one with New.
type Engine struct {
	cfg             Config
	console         *report.Console
	log             logger.Logger
	policy          Policy
	timingThreshold float64
	metrics         *metric.Registry
	textfile        string

	backend string
	root    string

	mu       sync.Mutex
	store    *storage.Store
	opened   bool
	ownStore bool
	dir      string
}

// Option configures an Engine.
type Option func(*Engine)

// WithOutput sets where results are printed. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) {
		e.console = report.NewConsole(w)
	}
}

// WithLogger sets the logger for warnings and diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithStore persists results in s instead of the discovered results
// directory. The engine does not close s.
func WithStore(s *storage.Store) Option {
	return func(e *Engine) {
		e.store = s
		e.opened = true
		e.ownStore = false
	}
}

// WithResultsDir replaces results directory discovery: results live in
// dir/microbench.
func WithResultsDir(dir string) Option {
	return func(e *Engine) {
		e.root = dir
	}
}

// WithBackend selects the storage backend by name ("file" or "badger").
func WithBackend(name string) Option {
	return func(e *Engine) {
		e.backend = name
	}
}

// WithPolicy sets the significance policy for sampled comparisons.
func WithPolicy(p Policy) Option {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithTimingThreshold sets the noise threshold, in percent, for plain timer
// comparisons.
func WithTimingThreshold(pct float64) Option {
	return func(e *Engine) {
		e.timingThreshold = pct
	}
}

// WithMetrics records every run in reg.
func WithMetrics(reg *metric.Registry) Option {
	return func(e *Engine) {
		e.metrics = reg
	}
}

// WithMetricsTextfile rewrites a node-exporter textfile at path after every
// run. It implies a metrics registry.
func WithMetricsTextfile(path string) Option {
	return func(e *Engine) {
		e.textfile = path
	}
}

// WithConfig sets the configuration used by the convenience functions.
func WithConfig(cfg Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// New creates an engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		cfg:             DefaultConfig(),
		console:         report.NewConsole(os.Stdout),
		log:             logger.Default(),
		policy:          analysis.DefaultPolicy(),
		timingThreshold: analysis.DefaultTimingNoiseThreshold,
		backend:         storage.BackendFile,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.textfile != "" && e.metrics == nil {
		e.metrics = metric.NewRegistry()
	}
	return e
}

// NewFromConfig creates an engine from a loaded configuration file. opts
// are applied last.
func NewFromConfig(cfg *config.Config, opts ...Option) *Engine {
	base := []Option{
		WithConfig(fromSection(cfg.Bench)),
		WithPolicy(cfg.Compare.Policy()),
		WithTimingThreshold(cfg.Compare.TimingNoiseThreshold),
		WithBackend(cfg.Storage.Backend),
		WithResultsDir(cfg.Storage.Dir),
		WithMetricsTextfile(cfg.Metrics.Textfile),
	}
	return New(append(base, opts...)...)
}

// Load reads the configuration file at path (optional) and the MICROBENCH_*
// environment, and returns an engine built from it.
func Load(path string, opts ...Option) (*Engine, error) {
	cfg, err := config.Load(path, nil)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg, opts...), nil
}

// Config returns the configuration used by the convenience functions.
func (e *Engine) Config() Config {
	return e.cfg
}

// Metrics returns the engine's metrics registry, or nil.
func (e *Engine) Metrics() *metric.Registry {
	return e.metrics
}

// ResultsDir returns the resolved results directory, or "" when it is not
// known yet or could not be determined.
func (e *Engine) ResultsDir() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dir
}

// Store opens the result store on first use. It returns nil when
// persistence is unavailable; the reason is logged once.
func (e *Engine) Store() *storage.Store {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.opened {
		return e.store
	}
	e.opened = true

	dir, err := targetdir.Resolve(e.root)
	if err != nil {
		e.log.Warn("results directory unavailable, persistence disabled", "error", err)
		return nil
	}
	backend, err := storage.Open(e.backend, dir, storage.WithLogger(e.log))
	if err != nil {
		e.log.Warn("failed to open result store, persistence disabled",
			"path", dir,
			"backend", e.backend,
			"error", err,
		)
		return nil
	}
	e.dir = dir
	e.store = storage.NewStore(backend, e.log)
	e.ownStore = true
	return e.store
}

// Close releases the result store if the engine opened it.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ownStore && e.store != nil {
		err := e.store.Close()
		e.store = nil
		e.opened = false
		e.ownStore = false
		return err
	}
	return nil
}

var (
	defaultEngine *Engine
	defaultMu     sync.Mutex
)

// Default returns the engine used by the convenience functions. On first use
// it is built from the MICROBENCH_* environment, whose log level also applies
// to the process logger; invalid settings are logged and replaced by defaults.
func Default() *Engine {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEngine == nil {
		cfg, err := config.Load("", nil)
		if err != nil {
			logger.Default().Warn("invalid environment configuration, using defaults", logger.KeyError, err)
			defaultEngine = New()
			return defaultEngine
		}
		_ = logger.SetLevel(cfg.Log.Level)
		defaultEngine = NewFromConfig(cfg)
	}
	return defaultEngine
}

// SetDefault replaces the engine used by the convenience functions.
func SetDefault(e *Engine) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = e
}
