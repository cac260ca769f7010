package skiplist

import "math/rand"

// HeightSource is the injectable pseudo-random bit source random_height
// draws from (spec.md §1, §9: "an injected primitive with a defined seed, so
// that tests are reproducible"). *math/rand.Rand already implements it.
type HeightSource interface {
	// Intn returns a uniform random value in [0, n).
	Intn(n int) int
}

// defaultHeightSource returns a HeightSource seeded from the process-wide
// default source, used when a SkipList is constructed without one.
func defaultHeightSource() HeightSource {
	return rand.New(rand.NewSource(rand.Int63()))
}
