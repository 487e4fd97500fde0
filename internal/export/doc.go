// Package export writes stored results in formats other tools consume:
// the Go benchmark format read by benchstat, JSON, and the Prometheus text
// exposition format.
package export
