// Package main provides the entry point for microbench.
//
// microbench inspects the results that pkg/bench persists between runs:
//
//   - list, show: stored labels and their current results
//   - compare: current run against the previous one, with bootstrap p-value
//   - export: benchfmt (for benchstat), JSON or Prometheus text
//   - clean: delete stored results
//   - watch: print a comparison whenever a new run of a label lands
//   - demo: run the bundled sample benchmarks
//
// Usage:
//
//	microbench list
//	microbench compare sort_1k --fail-on-regression
//	microbench export sort_1k --format benchfmt > new.txt
//	microbench --dir ./target watch sort_1k --metrics-addr :9464
package main
