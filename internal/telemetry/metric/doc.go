// Package metric exposes benchmark results as Prometheus metrics.
//
// Every metric carries a "label" label naming the benchmark. The registry
// is private to the process (not the global default registerer) and can be
// served over HTTP with Handler or written to a node-exporter textfile with
// WriteTextfile.
package metric
