package transition

import (
	"math/rand/v2"
	"time"
)

// Rand is the random source a generator samples from. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n). It is never called with n <= 0.
	IntN(n int) int
}

// NewRand returns a PCG-backed source for the given seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

func timeSeed() uint64 {
	return uint64(time.Now().UnixNano())
}
