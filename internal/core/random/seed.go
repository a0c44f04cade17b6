// Package random provides seed generation and goroutine-safe random sources
// for dice evaluation.
//
// Seeds come from crypto/rand; draws come from a seeded math/rand generator
// so a recorded seed replays the same sequence.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
