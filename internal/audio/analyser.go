package audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/iburimskiy/heart-rain/internal/config"
	"github.com/iburimskiy/heart-rain/internal/util"
)

// SampleSource provides the most recent mono samples, oldest first.
type SampleSource interface {
	Mono(dst []float64)
}

// Analyser turns the most recent samples into byte frequency data the way a
// browser AnalyserNode does: Blackman window, FFT, magnitude normalised by the
// window size, exponential smoothing across calls, decibel mapping onto 0..255.
type Analyser struct {
	src       SampleSource
	size      int
	smoothing float64
	minDB     float64
	maxDB     float64

	window   []float64
	samples  []float64
	smoothed []float64
}

// NewAnalyser builds an analyser over src. A nil src yields all-zero data.
func NewAnalyser(src SampleSource, cfg config.AudioConfig) *Analyser {
	return &Analyser{
		src:       src,
		size:      cfg.FFTSize,
		smoothing: cfg.Smoothing,
		minDB:     cfg.MinDecibels,
		maxDB:     cfg.MaxDecibels,
		window:    window.Blackman(cfg.FFTSize),
		samples:   make([]float64, cfg.FFTSize),
		smoothed:  make([]float64, cfg.FFTSize/2),
	}
}

// Bins is the length of the snapshot returned by ByteFrequencyData.
func (a *Analyser) Bins() int { return a.size / 2 }

// ByteFrequencyData fills dst with up to Bins() energy values in 0..255,
// lowest frequency first. Before anything has played every value is 0.
func (a *Analyser) ByteFrequencyData(dst []uint8) {
	if a.src == nil {
		clear(dst)
		return
	}

	a.src.Mono(a.samples)
	for i, w := range a.window {
		a.samples[i] *= w
	}
	spectrum := fft.FFTReal(a.samples)

	scale := 1 / float64(a.size)
	rangeScale := 255 / (a.maxDB - a.minDB)
	for i := range a.smoothed {
		mag := cmplxAbs(spectrum[i]) * scale
		s := a.smoothing*a.smoothed[i] + (1-a.smoothing)*mag
		if math.IsNaN(s) || math.IsInf(s, 0) {
			s = 0
		}
		a.smoothed[i] = s

		if i >= len(dst) {
			continue
		}
		db := decibels(s)
		dst[i] = uint8(util.Clamp(rangeScale*(db-a.minDB), 0, 255))
	}
	if len(dst) > len(a.smoothed) {
		clear(dst[len(a.smoothed):])
	}
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func decibels(v float64) float64 {
	if v <= 0 {
		return -1000
	}
	return 20 * math.Log10(v)
}
