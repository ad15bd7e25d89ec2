package scene

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/heart-rain/internal/util"
)

// StaticStar is a fixed background star whose opacity follows |sin(phase)|.
type StaticStar struct {
	env *Env

	X, Y        float64
	Radius      float64
	BaseOpacity float64
	Phase       float64
	Opacity     float64
}

func newStaticStar(env *Env) StaticStar {
	cfg := env.Config.StaticStars
	s := StaticStar{
		env:         env,
		Radius:      env.between(0, cfg.MaxRadius),
		BaseOpacity: env.between(cfg.MinOpacity, cfg.OpacityRange),
		Phase:       env.between(0, 2*math.Pi),
	}
	s.Place()
	return s
}

// Place moves the star to a random point inside the current bounds.
func (s *StaticStar) Place() {
	s.X = s.env.between(0, s.env.Bounds.W)
	s.Y = s.env.between(0, s.env.Bounds.H)
}

func (s *StaticStar) Update() {
	s.Phase += s.env.Config.StaticStars.TwinkleSpeed
	s.Opacity = util.Clamp01(math.Abs(math.Sin(s.Phase)) * s.BaseOpacity)
}

func (s *StaticStar) Draw(dst *ebiten.Image) {
	if s.Radius <= 0 {
		return
	}
	vector.DrawFilledCircle(dst, float32(s.X), float32(s.Y), float32(s.Radius), white(s.Opacity), true)
}

func white(opacity float64) color.NRGBA {
	return color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: uint8(util.Clamp01(opacity) * 0xff)}
}
