// Package randx provides the seeded random stream shared by a single build.
package randx

import "math/rand/v2"

// Stream is a deterministic random source. One Stream is created per build
// from the configured seed, so builds never depend on call history.
type Stream struct {
	r *rand.Rand
}

// New seeds a PCG stream.
func New(seed int64) *Stream {
	return &Stream{r: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

// FRand returns a value in [0, 1).
func (s *Stream) FRand() float64 {
	return s.r.Float64()
}

// FRandRange returns a value in [lo, hi).
func (s *Stream) FRandRange(lo, hi float64) float64 {
	return lo + (hi-lo)*s.r.Float64()
}

// RandRange returns an integer in [lo, hi] inclusive.
func (s *Stream) RandRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.r.IntN(hi-lo+1)
}
