// Package command provides the microbench CLI commands.
//
// The commands inspect the result store written by pkg/bench:
//
//   - root.go: application, global flags, per-invocation environment
//   - results.go: list, show, compare, export, clean
//   - watch.go: live comparison of a label as new runs land
//   - demo.go: bundled sample benchmarks
//   - config.go: configuration show and validate
//   - version.go: build information
//
// Commands parse their flags, read the store through the environment set
// up by the Before hook, and write through an output.Formatter.
package command
