// Package audio plays the background track and exposes what is being played
// as per-frame frequency snapshots.
package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/iburimskiy/heart-rain/internal/config"
)

// ErrUnsupportedFormat is returned for files that are not wav, mp3 or flac.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player owns the decoded track and its playback chain:
// decoder -> (loop) -> tap -> volume -> ctrl -> speaker.
type Player struct {
	path     string
	file     *os.File
	streamer beep.StreamSeekCloser
	format   beep.Format
	tap      *Tap
	ctrl     *beep.Ctrl
	started  bool
}

// Open decodes the track at path and initialises the speaker for its sample
// rate. Nothing is audible until Start is called.
func Open(path string, cfg config.AudioConfig) (*Player, error) {
	f, streamer, format, err := decode(path)
	if err != nil {
		return nil, err
	}

	var src beep.Streamer = streamer
	if cfg.Loop {
		src = beep.Loop(-1, streamer)
	}
	tap := NewTap(src, cfg.RingSize)
	ctrl := &beep.Ctrl{Streamer: volume(tap, cfg.Volume)}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, fmt.Errorf("initialising speaker: %w", err)
	}

	p := &Player{
		path:     path,
		file:     f,
		streamer: streamer,
		format:   format,
		tap:      tap,
		ctrl:     ctrl,
	}
	slog.Info("track loaded",
		"path", path,
		"sample_rate", int(format.SampleRate),
		"duration", p.Duration().Round(time.Second),
		"loop", cfg.Loop,
	)
	return p, nil
}

// Start begins playback. Calling it again is a no-op.
func (p *Player) Start() error {
	if p.started {
		return nil
	}
	p.started = true
	speaker.Play(beep.Seq(p.ctrl, beep.Callback(func() {
		slog.Info("track finished", "path", p.path)
	})))
	return nil
}

// Tap exposes the recorded samples for analysis.
func (p *Player) Tap() *Tap { return p.tap }

func (p *Player) Duration() time.Duration {
	return p.format.SampleRate.D(p.streamer.Len())
}

// Position reports the playback position within the track.
func (p *Player) Position() time.Duration {
	speaker.Lock()
	pos := p.streamer.Position()
	speaker.Unlock()
	return p.format.SampleRate.D(pos)
}

// Close stops playback and releases the file.
func (p *Player) Close() error {
	speaker.Lock()
	speaker.Clear()
	speaker.Unlock()
	err := p.streamer.Close()
	if ferr := p.file.Close(); err == nil && !errors.Is(ferr, os.ErrClosed) {
		err = ferr
	}
	return err
}

func decode(path string) (*os.File, beep.StreamSeekCloser, beep.Format, error) {
	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".mp3", ".flac":
	default:
		return nil, nil, format, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, format, err
	}

	switch ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".flac":
		streamer, format, err = flac.Decode(f)
	}
	if err != nil {
		_ = f.Close()
		return nil, nil, format, fmt.Errorf("decoding %s: %w", path, err)
	}
	return f, streamer, format, nil
}

// volume converts a linear gain into beep's logarithmic volume control.
func volume(s beep.Streamer, gain float64) beep.Streamer {
	if gain == 1 {
		return s
	}
	return &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   math.Log2(gain),
		Silent:   gain == 0,
	}
}
