package codec

import (
	"encoding/binary"
	"errors"
	"fmt"

	"lukechampine.com/uint128"

	"github.com/yndnr/microbench/internal/core/domain"
)

const (
	headerSize    = 8
	iterationSize = 8
	elapsedSize   = 16

	// TimingDataSize is the encoded size of a domain.TimingData.
	TimingDataSize = 4 * elapsedSize
)

// ErrMalformed is wrapped by every decode failure.
var ErrMalformed = errors.New("codec: malformed data")

// EncodedLen returns the encoded size of n samples as a 128-bit value, so
// that it cannot overflow for any n read from a header.
func EncodedLen(n uint64) uint128.Uint128 {
	return uint128.From64(n).Mul64(iterationSize + elapsedSize).Add64(headerSize)
}

// EncodeSampling serializes d. Samples and Times must be index-aligned.
func EncodeSampling(d *domain.SamplingData) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("codec: sampling data is nil")
	}
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("codec: encode sampling data: %w", err)
	}

	n := len(d.Samples)
	out := make([]byte, headerSize+n*(iterationSize+elapsedSize))
	binary.LittleEndian.PutUint64(out, uint64(n))

	off := headerSize
	for _, it := range d.Samples {
		binary.LittleEndian.PutUint64(out[off:], it)
		off += iterationSize
	}
	for _, el := range d.Times {
		el.PutBytes(out[off:])
		off += elapsedSize
	}
	return out, nil
}

// DecodeSampling parses buf produced by EncodeSampling.
func DecodeSampling(buf []byte) (*domain.SamplingData, error) {
	if len(buf) < headerSize {
		return nil, fmt.Errorf("codec: sampling data too short: %d bytes: %w", len(buf), ErrMalformed)
	}

	n := binary.LittleEndian.Uint64(buf)
	want := EncodedLen(n)
	if !want.Equals64(uint64(len(buf))) {
		return nil, fmt.Errorf("codec: sampling data of %d samples needs %s bytes, got %d: %w",
			n, want, len(buf), ErrMalformed)
	}

	d := &domain.SamplingData{
		Samples: make([]uint64, n),
		Times:   make([]uint128.Uint128, n),
	}
	off := headerSize
	for i := range d.Samples {
		d.Samples[i] = binary.LittleEndian.Uint64(buf[off:])
		off += iterationSize
	}
	for i := range d.Times {
		d.Times[i] = uint128.FromBytes(buf[off:])
		off += elapsedSize
	}
	return d, nil
}

// EncodeTiming serializes t into TimingDataSize bytes.
func EncodeTiming(t domain.TimingData) []byte {
	out := make([]byte, TimingDataSize)
	t.Min.PutBytes(out[0:])
	t.Max.PutBytes(out[16:])
	t.Elapsed.PutBytes(out[32:])
	t.Iterations.PutBytes(out[48:])
	return out
}

// DecodeTiming parses buf produced by EncodeTiming.
func DecodeTiming(buf []byte) (domain.TimingData, error) {
	if len(buf) != TimingDataSize {
		return domain.TimingData{}, fmt.Errorf("codec: timing data needs %d bytes, got %d: %w",
			TimingDataSize, len(buf), ErrMalformed)
	}
	return domain.TimingData{
		Min:        uint128.FromBytes(buf[0:]),
		Max:        uint128.FromBytes(buf[16:]),
		Elapsed:    uint128.FromBytes(buf[32:]),
		Iterations: uint128.FromBytes(buf[48:]),
	}, nil
}
