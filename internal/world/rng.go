package world

import "math/rand"

// RNG is the single gameplay random source of a world. Calls is the number of
// draws so far; replays compare it to catch divergence early.
type RNG struct {
	seed  int64
	r     *rand.Rand
	Calls uint64
}

func NewRNG(seed int64) *RNG {
	if seed == 0 {
		seed = 1
	}
	return &RNG{seed: seed, r: rand.New(rand.NewSource(seed))}
}

func (g *RNG) Seed() int64 { return g.seed }

// Float returns a value in [0, 1).
func (g *RNG) Float() float64 {
	g.Calls++
	return g.r.Float64()
}

// Centered returns a value in [-span/2, span/2).
func (g *RNG) Centered(span float64) float64 {
	return (g.Float() - 0.5) * span
}

// Range returns a value in [lo, hi).
func (g *RNG) Range(lo, hi float64) float64 {
	return lo + g.Float()*(hi-lo)
}

func (g *RNG) Intn(n int) int {
	g.Calls++
	return g.r.Intn(n)
}

// Chance reports whether a draw falls below p.
func (g *RNG) Chance(p float64) bool {
	return g.Float() < p
}

// Shuffle permutes n elements with swap.
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.Calls++
	g.r.Shuffle(n, swap)
}
