// Package speed draws obstacle speeds.
package speed

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
)

// Generator returns uniformly distributed speeds in [Min, Max).
type Generator struct {
	min, max float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a generator for [min, max).
func New(min, max float64, seed int64) (*Generator, error) {
	if min < 0 || max <= min {
		return nil, fmt.Errorf("speed: invalid range [%g, %g)", min, max)
	}
	return &Generator{
		min: min,
		max: max,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// Next draws one speed. Safe for concurrent use.
func (g *Generator) Next() float64 {
	g.mu.Lock()
	f := g.rng.Float64()
	g.mu.Unlock()

	return scale(f, g.min, g.max)
}

// scale maps f in [0, 1) onto [min, max). Rounding can land exactly on max
// when f is close to 1; that case becomes the largest value below max.
func scale(f, min, max float64) float64 {
	v := min + f*(max-min)
	if v >= max {
		v = math.Nextafter(max, min)
	}
	return v
}

// Range returns the configured bounds.
func (g *Generator) Range() (min, max float64) {
	return g.min, g.max
}
