package domain

import (
	"hash/fnv"
	"math/rand/v2"
)

// NewRand returns a deterministic generator for one component instance.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SeedFor derives a stable seed from a key such as an issue and section id.
func SeedFor(parts ...string) uint64 {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// Permutation returns a uniformly random ordering of 0..n-1 (Fisher-Yates).
func Permutation(n int, rng *rand.Rand) []int {
	if n <= 0 {
		return []int{}
	}
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	for i := n - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}
