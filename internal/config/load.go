package config

import (
	"strings"

	"github.com/yndnr/microbench/internal/infra/confloader"
)

// Load builds the configuration from defaults, the optional file at path,
// MICROBENCH_* environment variables and flag overrides, in increasing
// priority. Override keys are dotted paths such as "storage.dir". Keys in
// the file that match no setting are rejected, and the result is verified.
func Load(path string, overrides map[string]any) (*Config, error) {
	cfg := Default()

	loader := confloader.New(
		confloader.WithFile(path),
		confloader.WithOverrides(overrides),
	)
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if unknown := loader.UnknownKeys(cfg); len(unknown) > 0 {
		return nil, invalid("unknown keys in %s: %s", path, strings.Join(unknown, ", "))
	}

	if err := Verify(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
