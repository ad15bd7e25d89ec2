package scene

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/heart-rain/internal/util"
)

// Streak is a falling meteor. It fades linearly over its step budget and
// respawns at the top when the budget runs out or it leaves the canvas,
// whichever comes first.
type Streak struct {
	env *Env

	X, Y     float64
	Speed    float64
	Size     float64
	Opacity  float64
	Step     int
	MaxSteps int
}

func newStreak(env *Env) Streak {
	s := Streak{env: env}
	s.Reset()
	return s
}

func (s *Streak) Reset() {
	cfg := s.env.Config.Streaks
	s.X = s.env.between(0, s.env.Bounds.W)
	s.Y = cfg.SpawnY
	s.Speed = s.env.between(cfg.MinSpeed, cfg.SpeedRange)
	s.Size = s.env.between(0, cfg.MaxSize)
	s.Opacity = 1
	s.MaxSteps = stepBudget(s.env.Bounds.H, s.Speed, cfg.ExtraSteps)
	s.Step = 0
}

func (s *Streak) Update() {
	s.Y += s.Speed
	s.Step++
	s.Opacity = fade(s.Step, s.MaxSteps)

	if s.Step >= s.MaxSteps || s.Y > s.env.Bounds.H+s.env.Config.Streaks.BottomMargin {
		s.Reset()
	}
}

func (s *Streak) Draw(dst *ebiten.Image) {
	if s.Size <= 0 || s.Opacity <= 0 {
		return
	}
	vector.DrawFilledRect(dst, float32(s.X), float32(s.Y), float32(s.Size), float32(s.Size*3), white(s.Opacity), false)
}

// stepBudget is the number of frames a particle gets before it must respawn:
// enough to cross the canvas at speed, plus some slack.
func stepBudget(height, speed float64, extra int) int {
	return int(math.Ceil(height/speed)) + extra
}

func fade(step, maxSteps int) float64 {
	if maxSteps <= 0 {
		return 0
	}
	return util.Clamp01(1 - float64(step)/float64(maxSteps))
}
