package analysis

import (
	"math/rand/v2"
	"time"
)

// 48-bit linear congruential generator with the glibc drand48 constants.
const (
	lcgMultiplier = 25_214_903_917
	lcgIncrement  = 11
	lcgMask       = 1<<48 - 1
)

// lcg is a rand.Source over a 48-bit LCG. The low bits of an LCG are weak,
// so each Uint64 is built from the upper 32 bits of two consecutive states.
type lcg struct {
	state uint64
}

var _ rand.Source = (*lcg)(nil)

func newLCG(seed uint64) *lcg {
	return &lcg{state: seed & lcgMask}
}

func (g *lcg) next() uint64 {
	g.state = (lcgMultiplier*g.state + lcgIncrement) & lcgMask
	return g.state
}

func (g *lcg) Uint64() uint64 {
	hi := g.next() >> 16
	lo := g.next() >> 16
	return hi<<32 | lo
}

// newRand returns a generator seeded from the wall clock.
func newRand() *rand.Rand {
	return rand.New(newLCG(uint64(time.Now().UnixNano())))
}
