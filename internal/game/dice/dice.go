// Package dice provides the randomness abstraction used by combat and
// mortality resolution.
package dice

// Source is the randomness provider for all rolls.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}
