package config

import (
	"time"

	"github.com/yndnr/microbench/internal/core/analysis"
)

// Default configuration values.
const (
	DefaultMeasurementTime = 5 * time.Second
	DefaultWarmUpTime      = 3 * time.Second
	DefaultNumSamples      = 100
	DefaultNumResamples    = 100_000

	DefaultBackend = "file"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Bench: BenchSection{
			MeasurementTime: DefaultMeasurementTime,
			WarmUpTime:      DefaultWarmUpTime,
			NumSamples:      DefaultNumSamples,
			NumResamples:    DefaultNumResamples,
			DumpResults:     true,
		},
		Compare: CompareSection{
			NoiseThreshold:       analysis.DefaultNoiseThreshold,
			SignificanceLevel:    analysis.DefaultSignificanceLevel,
			TimingNoiseThreshold: analysis.DefaultTimingNoiseThreshold,
		},
		Storage: StorageSection{
			Backend: DefaultBackend,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Policy returns the comparison policy described by the compare section.
func (c *CompareSection) Policy() analysis.Policy {
	return analysis.Policy{
		NoiseThreshold:    c.NoiseThreshold,
		SignificanceLevel: c.SignificanceLevel,
	}
}
