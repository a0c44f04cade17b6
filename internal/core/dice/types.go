// Package dice implements the die-rolling primitives behind dice notation.
package dice

import "errors"

// ErrInvalidDiceSpec indicates a die specification has invalid fields.
var ErrInvalidDiceSpec = errors.New("dice must have positive sides and count")

// Source draws uniform integers. *math/rand.Rand satisfies it.
type Source interface {
	// Intn returns a uniform integer in [0, n). n is always positive.
	Intn(n int) int
}

// Spec describes a die to roll and how many times to roll it.
type Spec struct {
	Sides int
	Count int
}

// Valid reports whether the spec can be rolled.
func (s Spec) Valid() bool {
	return s.Sides > 0 && s.Count > 0
}

// Roll captures the results for a single dice spec.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Result captures the results from rolling multiple dice.
type Result struct {
	Rolls []Roll
	Total int
}
