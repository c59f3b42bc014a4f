package worldcache

import "math/rand/v2"

// Rand draws uniform integers in [0, n). Implementations must be safe for
// concurrent use.
type Rand interface {
	IntN(n int) int
}

// runtimeRand uses the math/rand/v2 top-level source, which keeps per-thread
// state and needs no lock.
type runtimeRand struct{}

func (runtimeRand) IntN(n int) int { return rand.IntN(n) }

// randomID draws a World id in [1, WorldCount].
func randomID(r Rand) int { return r.IntN(WorldCount) + 1 }
