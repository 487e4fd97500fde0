package config

import "time"

// Config is the root configuration for microbench.
type Config struct {
	Bench   BenchSection   `koanf:"bench" json:"bench" yaml:"bench"`
	Compare CompareSection `koanf:"compare" json:"compare" yaml:"compare"`
	Storage StorageSection `koanf:"storage" json:"storage" yaml:"storage"`
	Metrics MetricsSection `koanf:"metrics" json:"metrics" yaml:"metrics"`
	Log     LogSection     `koanf:"log" json:"log" yaml:"log"`
}

// BenchSection configures a measurement.
type BenchSection struct {
	MeasurementTime time.Duration `koanf:"measurement_time" json:"measurement_time" yaml:"measurement_time"`
	WarmUpTime      time.Duration `koanf:"warm_up_time" json:"warm_up_time" yaml:"warm_up_time"`
	NumSamples      uint64        `koanf:"num_samples" json:"num_samples" yaml:"num_samples"`
	NumResamples    int           `koanf:"num_resamples" json:"num_resamples" yaml:"num_resamples"`
	DumpResults     bool          `koanf:"dump_results_to_disk" json:"dump_results_to_disk" yaml:"dump_results_to_disk"`

	// MaxIterations, when non-zero, replaces calibration and scheduling
	// with a single sample of exactly this many iterations.
	MaxIterations uint64 `koanf:"max_iterations" json:"max_iterations" yaml:"max_iterations"`
}

// CompareSection configures how a run is judged against its predecessor.
// Thresholds are percentages.
type CompareSection struct {
	NoiseThreshold       float64 `koanf:"noise_threshold" json:"noise_threshold" yaml:"noise_threshold"`
	SignificanceLevel    float64 `koanf:"significance_level" json:"significance_level" yaml:"significance_level"`
	TimingNoiseThreshold float64 `koanf:"timing_noise_threshold" json:"timing_noise_threshold" yaml:"timing_noise_threshold"`
}

// StorageSection configures where results are kept.
type StorageSection struct {
	// Backend is "file" or "badger".
	Backend string `koanf:"backend" json:"backend" yaml:"backend"`

	// Dir overrides results directory discovery when set.
	Dir string `koanf:"dir" json:"dir" yaml:"dir"`
}

// MetricsSection configures Prometheus export.
type MetricsSection struct {
	// Textfile is a node-exporter textfile path rewritten after every run.
	Textfile string `koanf:"textfile" json:"textfile" yaml:"textfile"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level" json:"level" yaml:"level"`
	Format string `koanf:"format" json:"format" yaml:"format"`
}
