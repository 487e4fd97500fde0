// Package codec implements the binary layouts of persisted benchmark data.
//
// Sampling data (the *-sample slots):
//
//	[N:8][Iterations:8]*N[Elapsed:16]*N
//
// Timing data (the *-results slots):
//
//	[Min:16][Max:16][Elapsed:16][Iterations:16]
//
// Where:
//   - every integer is little-endian
//   - 16-byte fields are unsigned 128-bit nanosecond counts or totals
//   - there is no version field; a layout change is detected only as a
//     length mismatch
//
// Decoding never reads past the buffer. A buffer whose length disagrees with
// its header is rejected with an error wrapping ErrMalformed.
package codec
