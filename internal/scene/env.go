// Package scene holds the three particle populations of the effect: twinkling
// background stars, falling streaks and audio-reactive hearts.
package scene

import (
	"math/rand/v2"

	"github.com/iburimskiy/heart-rain/internal/config"
)

// Bounds is the drawable canvas size in pixels.
type Bounds struct {
	W, H float64
}

// Env is the state every particle reads but none owns: the canvas size, the
// random source and the tunables. It is only touched from the frame loop.
type Env struct {
	Bounds Bounds
	Rand   *rand.Rand
	Config *config.Config
}

// between returns a random value in [lo, lo+span).
func (e *Env) between(lo, span float64) float64 {
	return lo + e.Rand.Float64()*span
}
