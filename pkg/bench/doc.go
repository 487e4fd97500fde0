// Package bench measures small pieces of Go code and tells you whether
// they got faster or slower since the last run.
//
// A measurement warms the closure up for WarmUpTime to estimate its cost,
// plans NumSamples batches of linearly increasing size that together fill
// MeasurementTime, times each batch, and prints per-iteration statistics.
// With DumpResultsToDisk the samples are kept per label and compared with
// the previous run using Welch's t statistic and a bootstrap p-value.
//
//	bench.BenchLabeled("fib", func() int { return fib(20) })
//
//	bench.BenchWithSetupLabeled("sort",
//		func() []int { return shuffled(1000) },
//		func(s []int) []int { slices.Sort(s); return s })
//
// Plain timers skip the statistics and report min, mean and max:
//
//	for v := range bench.TimedPersisted("scan", rows) {
//		...
//	}
//
// Results live in <root>/microbench/<label>/, where root is the configured
// directory, the nearest "target" ancestor of the running executable, or
// the user cache directory. Persistence problems are logged and never stop
// a measurement.
package bench
