package game

import (
	"time"

	"github.com/iburimskiy/heart-rain/internal/util"
)

// Message is the closing line. It starts hidden and is revealed once; later
// reveals leave it untouched.
type Message struct {
	Text       string
	Opacity    float64
	RevealedAt time.Time
}

func (m *Message) Revealed() bool { return m.Opacity > 0 }

// Reveal shows the text and reports whether this call changed anything.
func (m *Message) Reveal(txt string, now time.Time) bool {
	if m.Revealed() {
		return false
	}
	m.Text = txt
	m.Opacity = 1
	m.RevealedAt = now
	return true
}

// DrawAlpha eases the drawn alpha from 0 to Opacity over fadeIn.
func (m *Message) DrawAlpha(now time.Time, fadeIn time.Duration) float64 {
	if !m.Revealed() {
		return 0
	}
	if fadeIn <= 0 {
		return m.Opacity
	}
	return util.Clamp01(float64(now.Sub(m.RevealedAt))/float64(fadeIn)) * m.Opacity
}
