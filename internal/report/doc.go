// Package report prints measurement results to a terminal.
//
// Output follows a fixed shape per run:
//
//	label [1.2M iterations in 5.01s with 100 samples]:
//		elapsed	[min mean max]:	[4.10ns 4.12ns 4.30ns] (sample data: med = 4.11ns, var = 0.01ns², stddev = 0.05ns)
//		change	[min mean max]:	[-0.1000% +0.2000% +0.3000%] (p = 0.42)
//
// Colors come from a lipgloss renderer bound to the destination writer, so
// redirected output carries no escape sequences.
package report
