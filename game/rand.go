package game

import "math"

// DefaultSeed is the seed every Rand starts from unless a caller picks its own.
// Seed 82 is the historical default; deterministic tests depend on it.
const DefaultSeed = 82

// Rand is a deterministic pseudo-random source for game mechanics only.
// Each deck and each player owns its own instance, so shuffles and random
// draws are reproducible given the same seed sequence. It is nowhere near
// cryptographically random and must not be used outside game logic.
type Rand struct {
	seed int64
}

// NewRand creates a Rand starting at the given seed.
func NewRand(seed int64) *Rand {
	return &Rand{seed: seed}
}

// Float returns the next value in [0, 1). The seed advances by one per call.
func (r *Rand) Float() float64 {
	s := math.Sin(float64(r.seed)) * 1e4
	r.seed++
	return s - math.Floor(s)
}

// Intn returns a uniform value in [0, n) drawn from Float.
func (r *Rand) Intn(n int) int {
	return int(r.Float() * float64(n))
}
