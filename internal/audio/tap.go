package audio

import (
	"sync"

	"github.com/faiface/beep"
)

// Tap sits in the playback chain and keeps a mono copy of the most recent
// samples for the analyser. What it hands downstream is untouched, so
// listening and analysing never interfere.
type Tap struct {
	src beep.Streamer

	mu      sync.Mutex
	ring    []float64
	written int // total samples recorded; the write head is written % len(ring)
}

// NewTap remembers up to size samples of src.
func NewTap(src beep.Streamer, size int) *Tap {
	return &Tap{src: src, ring: make([]float64, size)}
}

func (t *Tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.src.Stream(samples)

	t.mu.Lock()
	size := len(t.ring)
	for _, s := range samples[:n] {
		t.ring[t.written%size] = (s[0] + s[1]) / 2
		t.written++
	}
	t.mu.Unlock()

	return n, ok
}

func (t *Tap) Err() error { return t.src.Err() }

// Mono copies the last len(dst) recorded samples into dst, oldest first.
// Anything older than what has been recorded reads as silence.
func (t *Tap) Mono(dst []float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	avail := min(t.written, len(t.ring))
	pad := max(len(dst)-avail, 0)
	clear(dst[:pad])

	size := len(t.ring)
	start := t.written - (len(dst) - pad)
	for i := pad; i < len(dst); i++ {
		dst[i] = t.ring[(start+i-pad)%size]
	}
}
