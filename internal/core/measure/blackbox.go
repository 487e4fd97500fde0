package measure

import "runtime"

// BlackBox returns v unchanged while hiding it from the optimizer.
//
// The call is never inlined, so v has to be materialized as an argument, and
// KeepAlive marks it as used at the point of return.
//
//go:noinline
func BlackBox[T any](v T) T {
	runtime.KeepAlive(&v)
	return v
}
