// Package game drives the effect: it waits for the first user gesture, then
// every tick fades the canvas, samples the music, moves and paints the
// particles, and eventually reveals the closing message.
package game

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/heart-rain/internal/config"
	"github.com/iburimskiy/heart-rain/internal/scene"
	"github.com/iburimskiy/heart-rain/internal/util"
)

type State int

const (
	// Idle waits for the first click; audio may not start before a user gesture.
	Idle State = iota
	Running
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Track is the background music.
type Track interface {
	Start() error
	Position() time.Duration
	Duration() time.Duration
}

// Spectrum produces one frequency snapshot per call.
type Spectrum interface {
	Bins() int
	ByteFrequencyData(dst []uint8)
}

type Options struct {
	Config   *config.Config
	Track    Track    // nil plays nothing
	Spectrum Spectrum // nil yields silent snapshots
	Face     text.Face
	Rand     *rand.Rand
	Now      func() time.Time
	Debug    bool
}

type Game struct {
	cfg      *config.Config
	track    Track
	spectrum Spectrum
	face     text.Face
	now      func() time.Time
	debug    bool

	state     State
	startedAt time.Time
	snapshot  []uint8
	scene     *scene.Scene
	message   Message

	width, height int
	canvas        *ebiten.Image
}

func New(opts Options) *Game {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		seed := uint64(now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}

	bins := cfg.Audio.Bins()
	if opts.Spectrum != nil {
		bins = opts.Spectrum.Bins()
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	return &Game{
		cfg:      cfg,
		track:    opts.Track,
		spectrum: opts.Spectrum,
		face:     opts.Face,
		now:      now,
		debug:    opts.Debug,
		snapshot: make([]uint8, bins),
		scene:    scene.New(cfg, rng, scene.Bounds{W: float64(w), H: float64(h)}),
		width:    w,
		height:   h,
	}
}

func (g *Game) State() State { return g.state }

func (g *Game) Scene() *scene.Scene { return g.scene }

func (g *Game) Message() Message { return g.message }

func (g *Game) Size() (width, height int) { return g.width, g.height }

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}

	if g.state == Idle {
		if !startRequested() {
			return nil
		}
		g.start()
	}
	g.advance()
	g.paint()
	return nil
}

func startRequested() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) ||
		len(inpututil.AppendJustPressedTouchIDs(nil)) > 0 ||
		len(inpututil.AppendJustPressedKeys(nil)) > 0
}

// start is the one-shot Idle -> Running transition. A track that fails to
// start leaves the animation running without sound.
func (g *Game) start() {
	if g.state != Idle {
		return
	}
	if g.track != nil {
		if err := g.track.Start(); err != nil {
			slog.Warn("audio did not start, continuing silently", "error", err)
		}
	}
	g.state = Running
	g.startedAt = g.now()
	slog.Info("animation started", "width", g.width, "height", g.height)
}

// advance moves the scene forward one frame.
func (g *Game) advance() {
	if g.spectrum != nil {
		g.spectrum.ByteFrequencyData(g.snapshot)
	}
	g.scene.Update(g.snapshot)

	if g.elapsed() >= g.cfg.Message.Delay {
		if g.message.Reveal(g.cfg.Message.Text, g.now()) {
			slog.Info("message revealed", "after", g.elapsed().Round(time.Millisecond))
		}
	}
}

// paint washes the canvas with translucent black so earlier frames linger as
// trails, then draws the particles on top.
func (g *Game) paint() {
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(g.width, g.height)
	}
	fade := color.NRGBA{A: uint8(util.Clamp01(g.cfg.Canvas.FadeAlpha) * 0xff)}
	vector.DrawFilledRect(g.canvas, 0, 0, float32(g.width), float32(g.height), fade, false)
	g.scene.Draw(g.canvas)
}

func (g *Game) elapsed() time.Duration {
	if g.state != Running {
		return 0
	}
	return g.now().Sub(g.startedAt)
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.canvas != nil {
		screen.DrawImage(g.canvas, nil)
	}

	if g.state == Idle {
		hint := "Click anywhere to start"
		ebitenutil.DebugPrintAt(screen, hint, (g.width-len(hint)*6)/2, g.height/2)
	}
	g.drawMessage(screen)

	if g.debug {
		g.drawOverlay(screen)
	}
}

func (g *Game) drawMessage(screen *ebiten.Image) {
	alpha := g.message.DrawAlpha(g.now(), g.cfg.Message.FadeIn)
	if alpha <= 0 {
		return
	}
	if g.face == nil {
		ebitenutil.DebugPrintAt(screen, g.message.Text, g.width/2-len(g.message.Text)*3, g.height/2)
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(g.width)/2, float64(g.height)/2)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	op.ColorScale.ScaleAlpha(float32(alpha))
	text.Draw(screen, g.message.Text, g.face, op)
}

func (g *Game) drawOverlay(screen *ebiten.Image) {
	status := fmt.Sprintf("%s | elapsed %s | TPS %.0f", g.state, util.Clock(g.elapsed()), ebiten.ActualTPS())
	if g.track != nil {
		status += fmt.Sprintf(" | track %s / %s", util.Clock(g.track.Position()), util.Clock(g.track.Duration()))
	}
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}

// Layout follows the window size so the canvas always fills it.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 && (outsideWidth != g.width || outsideHeight != g.height) {
		g.resize(outsideWidth, outsideHeight)
	}
	return g.width, g.height
}

// resize drops the canvas, which clears it, and re-seeds every particle for
// the new bounds.
func (g *Game) resize(width, height int) {
	g.width, g.height = width, height
	if g.canvas != nil {
		g.canvas.Deallocate()
		g.canvas = nil
	}
	g.scene.Resize(scene.Bounds{W: float64(width), H: float64(height)})
	slog.Debug("resized", "width", width, "height", height)
}
