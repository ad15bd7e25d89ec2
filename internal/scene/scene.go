package scene

import (
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/heart-rain/internal/config"
)

// Scene owns the fixed particle populations. They are created once and only
// ever mutated in place.
type Scene struct {
	env *Env

	StaticStars []StaticStar
	Streaks     []Streak
	Hearts      []Heart
}

func New(cfg *config.Config, rng *rand.Rand, b Bounds) *Scene {
	env := &Env{Bounds: b, Rand: rng, Config: cfg}
	s := &Scene{
		env:         env,
		StaticStars: make([]StaticStar, cfg.StaticStars.Count),
		Streaks:     make([]Streak, cfg.Streaks.Count),
		Hearts:      make([]Heart, cfg.Hearts.Count),
	}
	for i := range s.StaticStars {
		s.StaticStars[i] = newStaticStar(env)
	}
	for i := range s.Streaks {
		s.Streaks[i] = newStreak(env)
	}
	for i := range s.Hearts {
		s.Hearts[i] = newHeart(env)
	}
	return s
}

func (s *Scene) Bounds() Bounds { return s.env.Bounds }

// Resize scatters the background stars over the new bounds and sends every
// falling particle back to the top.
func (s *Scene) Resize(b Bounds) {
	s.env.Bounds = b
	for i := range s.StaticStars {
		s.StaticStars[i].Place()
	}
	for i := range s.Streaks {
		s.Streaks[i].Reset()
	}
	for i := range s.Hearts {
		s.Hearts[i].Reset()
	}
}

// Update advances every particle one frame, background first.
func (s *Scene) Update(snapshot []uint8) {
	for i := range s.StaticStars {
		s.StaticStars[i].Update()
	}
	for i := range s.Streaks {
		s.Streaks[i].Update()
	}
	for i := range s.Hearts {
		s.Hearts[i].Update(snapshot)
	}
}

// Draw paints stars behind streaks behind hearts.
func (s *Scene) Draw(dst *ebiten.Image) {
	for i := range s.StaticStars {
		s.StaticStars[i].Draw(dst)
	}
	for i := range s.Streaks {
		s.Streaks[i].Draw(dst)
	}
	for i := range s.Hearts {
		s.Hearts[i].Draw(dst)
	}
}
