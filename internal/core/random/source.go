package random

import (
	"math/rand"
	"sync"
)

// LockedSource is a seeded dice source safe for concurrent use.
type LockedSource struct {
	mu   sync.Mutex
	rng  *rand.Rand
	seed int64
}

// NewSource returns a source that replays the sequence for seed.
func NewSource(seed int64) *LockedSource {
	return &LockedSource{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// NewSecureSource returns a source seeded from crypto/rand.
func NewSecureSource() (*LockedSource, error) {
	seed, err := NewSeed()
	if err != nil {
		return nil, err
	}
	return NewSource(seed), nil
}

// Seed returns the seed the source was created with.
func (s *LockedSource) Seed() int64 {
	return s.seed
}

// Intn returns a uniform integer in [0, n).
func (s *LockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}
