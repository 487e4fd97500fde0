package bench

import (
	"time"

	"github.com/yndnr/microbench/internal/config"
	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/core/measure"
)

// Config controls a single measurement.
type Config struct {
	// MeasurementTime is the target total duration of the sampled batches.
	MeasurementTime time.Duration
	// WarmUpTime is the calibration budget.
	WarmUpTime time.Duration
	// NumSamples is the requested sample count. It may be compressed when
	// the work is too slow to fit MeasurementTime.
	NumSamples uint64
	// NumResamples is the bootstrap size used for the p-value.
	NumResamples int
	// DumpResultsToDisk persists the samples and compares against the
	// previous run.
	DumpResultsToDisk bool
	// MaxIterations, when non-zero, skips warm-up and runs a single sample
	// of exactly this many iterations.
	MaxIterations uint64
}

// DefaultConfig returns a 5s measurement after a 3s warm-up, with 100
// samples, 100000 resamples and persistence enabled.
func DefaultConfig() Config {
	return Config{
		MeasurementTime:   config.DefaultMeasurementTime,
		WarmUpTime:        config.DefaultWarmUpTime,
		NumSamples:        config.DefaultNumSamples,
		NumResamples:      config.DefaultNumResamples,
		DumpResultsToDisk: true,
	}
}

// Validate reports whether c can drive a measurement.
func (c Config) Validate() error {
	switch {
	case c.MeasurementTime < 0:
		return domain.ErrInvalidConfig.Detailf("measurement time %s is negative", c.MeasurementTime)
	case c.WarmUpTime < 0:
		return domain.ErrInvalidConfig.Detailf("warm up time %s is negative", c.WarmUpTime)
	case c.NumSamples == 0:
		return domain.ErrInvalidConfig.WithDetails("num samples must be at least 1")
	case c.NumResamples < 1:
		return domain.ErrInvalidConfig.Detailf("num resamples %d must be at least 1", c.NumResamples)
	case c.MaxIterations > measure.MaxBatch:
		return domain.ErrInvalidConfig.Detailf("max iterations %d exceeds %d", c.MaxIterations, measure.MaxBatch)
	}
	return nil
}

func fromSection(s config.BenchSection) Config {
	return Config{
		MeasurementTime:   s.MeasurementTime,
		WarmUpTime:        s.WarmUpTime,
		NumSamples:        s.NumSamples,
		NumResamples:      s.NumResamples,
		DumpResultsToDisk: s.DumpResults,
		MaxIterations:     s.MaxIterations,
	}
}

// LoadConfig reads the bench section of the YAML file at path (optional)
// layered under MICROBENCH_BENCH__* environment variables.
func LoadConfig(path string) (Config, error) {
	cfg, err := config.Load(path, nil)
	if err != nil {
		return Config{}, err
	}
	return fromSection(cfg.Bench), nil
}
