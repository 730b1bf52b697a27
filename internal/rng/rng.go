// Package rng is a small deterministic xoshiro256+ generator.
//
// The same seed always produces the same stream, which the game relies on
// for reproducible serves and for replaying recorded sessions.
package rng

import (
	"math/bits"

	"golang.org/x/exp/rand"
)

// Rand satisfies rand.Source so it can back a *rand.Rand where the
// richer helpers (Intn, NormFloat64...) are wanted.
var _ rand.Source = (*Rand)(nil)

type Rand struct {
	state [4]uint64
}

func New(seed uint64) *Rand {
	r := &Rand{}
	r.Seed(seed)
	return r
}

// Seed expands a single value into the four state words through splitmix64,
// so that small or similar seeds still start far apart.
func (r *Rand) Seed(seed uint64) {
	r.state[0] = splitmix64(seed)
	r.state[1] = splitmix64(r.state[0])
	r.state[2] = splitmix64(r.state[1])
	r.state[3] = splitmix64(r.state[2])
}

func (r *Rand) Next() uint64 {
	s := &r.state
	result := s[0] + s[3]
	t := s[1] << 17

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]
	s[2] ^= t
	s[3] = bits.RotateLeft64(s[3], 45)

	return result
}

// Uint64 is Next under the name rand.Source expects.
func (r *Rand) Uint64() uint64 {
	return r.Next()
}

// Fnext returns a float32 in [0,1) built from the top 24 bits.
func (r *Rand) Fnext() float32 {
	return float32(r.Next()>>40) * (1.0 / (1 << 24))
}

// Dnext returns a float64 in [0,1) built from the top 53 bits.
func (r *Rand) Dnext() float64 {
	return float64(r.Next()>>11) * (1.0 / (1 << 53))
}

func splitmix64(seed uint64) uint64 {
	z := seed + 0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
