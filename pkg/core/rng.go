package core

import (
	"math/rand/v2"
	"sync"
	"time"
)

// RNG is a thin convenience wrapper around math/rand/v2 for deterministic seeding.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

var (
	processMu   sync.Mutex
	processSeed = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1))
)

// NewRNGFrom returns a deterministic RNG when seed is non-nil and otherwise one
// seeded from the process-wide generator.
func NewRNGFrom(seed *int64) *RNG {
	if seed != nil {
		return NewRNG(*seed)
	}
	processMu.Lock()
	s := processSeed.Int64()
	processMu.Unlock()
	return NewRNG(s)
}

// Bool returns a random boolean value.
func (r *RNG) Bool() bool {
	return r.r.IntN(2) == 1
}

// IntN returns a random int in [0, n). It returns 0 when n <= 0.
func (r *RNG) IntN(n int) int {
	if n <= 0 {
		return 0
	}
	return r.r.IntN(n)
}

// Float64 returns a random value in [0, 1).
func (r *RNG) Float64() float64 { return r.r.Float64() }

// Range returns a random value in [lo, hi). Swapped bounds are tolerated.
func (r *RNG) Range(lo, hi float64) float64 {
	if hi < lo {
		lo, hi = hi, lo
	}
	return lo + (hi-lo)*r.r.Float64()
}

// Signed returns a random value in [-1, 1).
func (r *RNG) Signed() float64 { return 2*r.r.Float64() - 1 }

// Sample returns k distinct indices from [0, n) in draw order.
func (r *RNG) Sample(n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	perm := r.r.Perm(n)
	return perm[:k]
}

// Source exposes the underlying rand.Rand for advanced use.
func (r *RNG) Source() *rand.Rand { return r.r }
