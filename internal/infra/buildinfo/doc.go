// Package buildinfo reports the version of the microbench binary.
//
// Release builds inject values via ldflags:
//
//	go build -ldflags "-X github.com/yndnr/microbench/internal/infra/buildinfo.Version=v1.0.0 \
//	  -X github.com/yndnr/microbench/internal/infra/buildinfo.Commit=abc123"
//
// When nothing is injected, Get falls back to the module version and VCS
// revision recorded by the Go toolchain.
package buildinfo
