package testutil

import "math/rand/v2"

// Rand returns a PCG source seeded from seed alone, so one number is
// enough to reproduce a game.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
