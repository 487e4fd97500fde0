package storage

import "github.com/yndnr/microbench/internal/telemetry/logger"

type options struct {
	logger     logger.Logger
	syncWrites bool
}

func defaultOptions() options {
	return options{logger: logger.Default()}
}

// Option configures a backend opened with Open.
type Option func(*options)

// WithLogger sets the logger for backend diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSyncWrites makes the Badger backend fsync every commit.
func WithSyncWrites(sync bool) Option {
	return func(o *options) {
		o.syncWrites = sync
	}
}
