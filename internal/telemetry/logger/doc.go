// Package logger provides structured logging for microbench.
//
// It wraps log/slog behind a small Logger interface so that the engine,
// the result store and the CLI share one logging surface:
//
//   - logger.go: handler construction, level control, process default
//
// Warnings of the error taxonomy (label fallback, sample compression,
// persistence failures) are emitted as structured Warn records carrying
// label, path and error attributes.
package logger
