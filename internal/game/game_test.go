package game

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/iburimskiy/heart-rain/internal/config"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type fakeTrack struct {
	starts int
	err    error
}

func (f *fakeTrack) Start() error {
	f.starts++
	return f.err
}

func (f *fakeTrack) Position() time.Duration { return 0 }
func (f *fakeTrack) Duration() time.Duration { return time.Minute }

type constSpectrum uint8

func (c constSpectrum) Bins() int { return 128 }

func (c constSpectrum) ByteFrequencyData(dst []uint8) {
	for i := range dst {
		dst[i] = uint8(c)
	}
}

func newTestGame(t *testing.T, opts Options) (*Game, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 2, 14, 20, 0, 0, 0, time.UTC)}
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	opts.Rand = rand.New(rand.NewPCG(1, 2))
	opts.Now = clock.Now
	return New(opts), clock
}

func TestStartsIdle(t *testing.T) {
	track := &fakeTrack{}
	g, clock := newTestGame(t, Options{Track: track})

	clock.Advance(time.Hour)
	if g.State() != Idle {
		t.Fatalf("state = %v, want idle", g.State())
	}
	if g.elapsed() != 0 {
		t.Errorf("elapsed = %v while idle", g.elapsed())
	}
	if track.starts != 0 {
		t.Errorf("track started %d times before any gesture", track.starts)
	}
	if msg := g.Message(); msg.Revealed() {
		t.Error("message visible while idle")
	}
}

func TestStartIsOneShot(t *testing.T) {
	track := &fakeTrack{}
	g, _ := newTestGame(t, Options{Track: track})

	g.start()
	g.start()

	if g.State() != Running {
		t.Fatalf("state = %v, want running", g.State())
	}
	if track.starts != 1 {
		t.Errorf("track started %d times, want 1", track.starts)
	}
}

func TestStartFailureRunsSilently(t *testing.T) {
	track := &fakeTrack{err: errors.New("no audio device")}
	g, _ := newTestGame(t, Options{Track: track})

	g.start()
	g.advance()

	if g.State() != Running {
		t.Errorf("state = %v, want running despite the audio error", g.State())
	}
}

func TestMessageReveal(t *testing.T) {
	g, clock := newTestGame(t, Options{})
	g.start()

	frame := 16 * time.Millisecond
	for g.elapsed()+frame < 10*time.Second {
		clock.Advance(frame)
		g.advance()
		if g.Message().Opacity != 0 || g.Message().Text != "" {
			t.Fatalf("message shown at %v", g.elapsed())
		}
	}

	clock.Advance(10*time.Second - g.elapsed() - time.Millisecond)
	g.advance()
	if msg := g.Message(); msg.Revealed() {
		t.Fatalf("message shown at %v", g.elapsed())
	}

	clock.Advance(time.Millisecond)
	g.advance()
	m := g.Message()
	if m.Opacity != 1 || m.Text != "我喜欢你" {
		t.Fatalf("at %v message = %+v, want revealed greeting", g.elapsed(), m)
	}

	revealedAt := m.RevealedAt
	for i := 0; i < 10; i++ {
		clock.Advance(frame)
		g.advance()
	}
	if got := g.Message(); got.RevealedAt != revealedAt || got.Opacity != 1 || got.Text != "我喜欢你" {
		t.Errorf("message changed after reveal: %+v", got)
	}
}

func TestSnapshotDrivesHearts(t *testing.T) {
	tests := []struct {
		name     string
		spectrum Spectrum
		sizeMul  float64
		speedMul float64
	}{
		{"no spectrum", nil, 1, 1},
		{"silent", constSpectrum(0), 1, 1},
		{"loud", constSpectrum(255), 3, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := newTestGame(t, Options{Spectrum: tt.spectrum})
			g.start()
			g.advance()

			for i, h := range g.Scene().Hearts {
				if math.Abs(h.Size-tt.sizeMul*h.BaseSize) > 1e-9 {
					t.Errorf("heart %d size = %g, want %g x %g", i, h.Size, tt.sizeMul, h.BaseSize)
				}
				if math.Abs(h.Speed-tt.speedMul*h.BaseSpeed) > 1e-9 {
					t.Errorf("heart %d speed = %g, want %g x %g", i, h.Speed, tt.speedMul, h.BaseSpeed)
				}
			}
		})
	}
}

func TestLayoutResizes(t *testing.T) {
	g, _ := newTestGame(t, Options{Spectrum: constSpectrum(100)})
	g.start()
	for i := 0; i < 20; i++ {
		g.advance()
	}

	w, h := g.Size()
	if gw, gh := g.Layout(w, h); gw != w || gh != h {
		t.Fatalf("Layout(%d,%d) = %d,%d", w, h, gw, gh)
	}
	if g.Scene().Streaks[0].Step == 0 {
		t.Fatal("unchanged layout must not reset particles")
	}

	if gw, gh := g.Layout(640, 360); gw != 640 || gh != 360 {
		t.Fatalf("Layout returned %dx%d, want 640x360", gw, gh)
	}
	for _, st := range g.Scene().StaticStars {
		if st.X < 0 || st.X >= 640 || st.Y < 0 || st.Y >= 360 {
			t.Errorf("star at (%g,%g) outside 640x360", st.X, st.Y)
		}
	}
	for _, st := range g.Scene().Streaks {
		if st.Step != 0 {
			t.Errorf("streak step = %d after resize", st.Step)
		}
	}
	for _, h := range g.Scene().Hearts {
		if h.Step != 0 {
			t.Errorf("heart step = %d after resize", h.Step)
		}
	}

	if gw, gh := g.Layout(0, 0); gw != 640 || gh != 360 {
		t.Errorf("zero layout changed size to %dx%d", gw, gh)
	}
}

func TestMessageDrawAlpha(t *testing.T) {
	t0 := time.Unix(0, 0)
	var m Message
	if a := m.DrawAlpha(t0, time.Second); a != 0 {
		t.Errorf("hidden message alpha = %g", a)
	}

	if !m.Reveal("hi", t0) {
		t.Fatal("first Reveal reported no change")
	}
	if m.Reveal("bye", t0.Add(time.Second)) {
		t.Error("second Reveal reported a change")
	}
	if m.Text != "hi" {
		t.Errorf("text = %q, want first reveal to stick", m.Text)
	}

	tests := []struct {
		at     time.Duration
		fadeIn time.Duration
		want   float64
	}{
		{0, 2 * time.Second, 0},
		{time.Second, 2 * time.Second, 0.5},
		{3 * time.Second, 2 * time.Second, 1},
		{0, 0, 1},
	}
	for _, tt := range tests {
		if got := m.DrawAlpha(t0.Add(tt.at), tt.fadeIn); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("DrawAlpha(%v, fade %v) = %g, want %g", tt.at, tt.fadeIn, got, tt.want)
		}
	}
}

func TestStateString(t *testing.T) {
	if Idle.String() != "idle" || Running.String() != "running" {
		t.Errorf("got %q/%q", Idle, Running)
	}
}
