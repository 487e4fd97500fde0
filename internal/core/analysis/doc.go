// Package analysis reduces sampling data to summary statistics and compares
// two runs of the same benchmark.
//
// The significance test is a pooled bootstrap: both runs' per-sample
// averages are pooled, resampled with replacement, split back into groups of
// the original sizes, and the Welch t statistic of every resampled pair forms
// an empirical null distribution. The p-value is read off that distribution
// by rank (see PValue). It approximates a permutation test and is not an
// analytic p-value; the analytic Welch p is reported alongside for
// reference.
package analysis
