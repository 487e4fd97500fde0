package config

import (
	"slices"

	"github.com/yndnr/microbench/internal/core/domain"
	"github.com/yndnr/microbench/internal/core/measure"
	"github.com/yndnr/microbench/internal/storage"
	"github.com/yndnr/microbench/internal/telemetry/logger"
)

var logFormats = []string{"text", "json"}

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyBench(&cfg.Bench); err != nil {
		return err
	}
	if err := verifyCompare(&cfg.Compare); err != nil {
		return err
	}
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func invalid(format string, args ...any) error {
	return domain.ErrInvalidConfig.Detailf(format, args...)
}

func verifyBench(cfg *BenchSection) error {
	if cfg.MeasurementTime < 0 {
		return invalid("bench.measurement_time must not be negative, got %s", cfg.MeasurementTime)
	}
	if cfg.WarmUpTime < 0 {
		return invalid("bench.warm_up_time must not be negative, got %s", cfg.WarmUpTime)
	}
	if cfg.NumSamples < 1 {
		return invalid("bench.num_samples must be at least 1")
	}
	if cfg.NumResamples < 1 {
		return invalid("bench.num_resamples must be at least 1, got %d", cfg.NumResamples)
	}
	if cfg.MaxIterations > measure.MaxBatch {
		return invalid("bench.max_iterations must not exceed %d, got %d", measure.MaxBatch, cfg.MaxIterations)
	}
	return nil
}

func verifyCompare(cfg *CompareSection) error {
	if cfg.NoiseThreshold < 0 {
		return invalid("compare.noise_threshold must not be negative, got %g", cfg.NoiseThreshold)
	}
	if cfg.SignificanceLevel <= 0 || cfg.SignificanceLevel > 1 {
		return invalid("compare.significance_level must be in (0, 1], got %g", cfg.SignificanceLevel)
	}
	if cfg.TimingNoiseThreshold < 0 {
		return invalid("compare.timing_noise_threshold must not be negative, got %g", cfg.TimingNoiseThreshold)
	}
	return nil
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case storage.BackendFile, storage.BackendBadger:
		return nil
	default:
		return invalid("storage.backend must be %q or %q, got %q",
			storage.BackendFile, storage.BackendBadger, cfg.Backend)
	}
}

func verifyLog(cfg *LogSection) error {
	if _, err := logger.ParseLevel(cfg.Level); err != nil {
		return invalid("log.level: %v", err)
	}
	if !slices.Contains(logFormats, cfg.Format) {
		return invalid("log.format must be one of %v, got %q", logFormats, cfg.Format)
	}
	return nil
}
