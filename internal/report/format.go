package report

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
	"lukechampine.com/uint128"
)

const (
	nanoLimit  = 1e3
	microLimit = 1e6
	milliLimit = 1e9
)

// FormatTime renders nanoseconds with the largest unit that keeps the value
// below 1000.
func FormatTime(ns float64) string {
	switch {
	case math.IsNaN(ns):
		return "NaN"
	case ns < nanoLimit:
		return fmt.Sprintf("%.2fns", ns)
	case ns < microLimit:
		return fmt.Sprintf("%.2fµs", ns/nanoLimit)
	case ns < milliLimit:
		return fmt.Sprintf("%.2fms", ns/microLimit)
	default:
		return fmt.Sprintf("%.2fs", ns/milliLimit)
	}
}

// FormatCount renders a count with an SI suffix, e.g. "1.2M".
func FormatCount(n float64) string {
	if n < nanoLimit {
		return fmt.Sprintf("%.1f", n)
	}
	v, prefix := humanize.ComputeSI(n)
	return humanize.FtoaWithDigits(v, 1) + prefix
}

// FormatIterations renders an exact 128-bit count with thousands separators.
func FormatIterations(n uint128.Uint128) string {
	return humanize.BigComma(n.Big())
}

// FormatChange renders a relative change in percent with an explicit sign.
func FormatChange(pct float64) string {
	return fmt.Sprintf("%+.4f%%", pct)
}

// FormatP renders a p-value, or a note when no test was possible.
func FormatP(p float64) string {
	if math.IsNaN(p) {
		return "p = n/a, fewer than 2 samples"
	}
	return fmt.Sprintf("p = %.2f", p)
}
