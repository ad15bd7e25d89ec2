package scene

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Heart falls like a Streak but its size, speed and hue follow the music:
// bass inflates it, mids speed it up, treble drifts its hue.
//
// MaxSteps is only computed on Reset from the base speed, so audio-driven speed
// changes make hearts respawn a little earlier or later than the budget alone
// would suggest. That breathing is part of the look.
type Heart struct {
	env *Env

	X, Y      float64
	BaseSpeed float64
	Speed     float64
	BaseSize  float64
	Size      float64
	Hue       float64
	Opacity   float64
	Step      int
	MaxSteps  int
}

func newHeart(env *Env) Heart {
	h := Heart{env: env}
	h.Reset()
	// Hue is picked once and keeps drifting across respawns.
	h.Hue = env.between(0, 360)
	return h
}

func (h *Heart) Reset() {
	cfg := h.env.Config.Hearts
	h.X = h.env.between(0, h.env.Bounds.W)
	h.Y = cfg.SpawnY
	h.BaseSpeed = h.env.between(cfg.MinSpeed, cfg.SpeedRange)
	h.Speed = h.BaseSpeed
	h.BaseSize = h.env.between(cfg.MinSize, cfg.SizeRange)
	h.Size = h.BaseSize
	h.Opacity = 1
	h.MaxSteps = stepBudget(h.env.Bounds.H, h.Speed, cfg.ExtraSteps)
	h.Step = 0
}

// Update advances the heart one frame using the given frequency snapshot.
func (h *Heart) Update(snapshot []uint8) {
	cfg := h.env.Config.Hearts
	lv := ReadLevels(snapshot, cfg.Bands)

	h.Size = h.BaseSize * (1 + cfg.BassGain*lv.Bass)
	h.Speed = h.BaseSpeed * (1 + cfg.MidGain*lv.Mid)
	h.Hue = math.Mod(h.Hue+cfg.TrebleHueShift*lv.Treble, 360)

	h.Y += h.Speed
	h.Step++
	h.Opacity = fade(h.Step, h.MaxSteps)

	if h.Step >= h.MaxSteps || h.Y > h.env.Bounds.H+cfg.BottomMargin {
		h.Reset()
	}
}

// Draw fills a heart in the Size x Size box whose bottom-left corner is (X, Y),
// the way a glyph sits on its baseline.
func (h *Heart) Draw(dst *ebiten.Image) {
	if h.Size <= 0 || h.Opacity <= 0 {
		return
	}
	// HSL(h, 100%, 50%) is the same colour as HSV(h, 1, 1).
	c := hsvToRgb(h.Hue, 1, 1)
	drawHeart(dst, h.X, h.Y-h.Size, h.Size, c, h.Opacity)
}
