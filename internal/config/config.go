// Package config holds the tunables of the effect. The embedded defaults carry the
// stock constants; a user YAML file may override any subset of them.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type Config struct {
	Window      WindowConfig     `yaml:"window"`
	Audio       AudioConfig      `yaml:"audio"`
	Canvas      CanvasConfig     `yaml:"canvas"`
	StaticStars StaticStarConfig `yaml:"static_stars"`
	Streaks     StreakConfig     `yaml:"streaks"`
	Hearts      HeartConfig      `yaml:"hearts"`
	Message     MessageConfig    `yaml:"message"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// AudioConfig mirrors the knobs of a browser AnalyserNode.
type AudioConfig struct {
	Volume      float64 `yaml:"volume"` // linear gain, 1 = unchanged
	Loop        bool    `yaml:"loop"`
	RingSize    int     `yaml:"ring_size"`
	FFTSize     int     `yaml:"fft_size"`
	Smoothing   float64 `yaml:"smoothing"`
	MinDecibels float64 `yaml:"min_decibels"`
	MaxDecibels float64 `yaml:"max_decibels"`
}

// Bins is the number of frequency bins produced per snapshot.
func (a AudioConfig) Bins() int { return a.FFTSize / 2 }

type CanvasConfig struct {
	FadeAlpha float64 `yaml:"fade_alpha"` // alpha of the black wash painted each frame
}

type StaticStarConfig struct {
	Count        int     `yaml:"count"`
	MaxRadius    float64 `yaml:"max_radius"`
	MinOpacity   float64 `yaml:"min_opacity"`
	OpacityRange float64 `yaml:"opacity_range"`
	TwinkleSpeed float64 `yaml:"twinkle_speed"` // radians per frame
}

type StreakConfig struct {
	Count        int     `yaml:"count"`
	SpawnY       float64 `yaml:"spawn_y"`
	MinSpeed     float64 `yaml:"min_speed"`
	SpeedRange   float64 `yaml:"speed_range"`
	MaxSize      float64 `yaml:"max_size"`
	ExtraSteps   int     `yaml:"extra_steps"`
	BottomMargin float64 `yaml:"bottom_margin"`
}

type HeartConfig struct {
	Count          int        `yaml:"count"`
	SpawnY         float64    `yaml:"spawn_y"`
	MinSpeed       float64    `yaml:"min_speed"`
	SpeedRange     float64    `yaml:"speed_range"`
	MinSize        float64    `yaml:"min_size"`
	SizeRange      float64    `yaml:"size_range"`
	ExtraSteps     int        `yaml:"extra_steps"`
	BottomMargin   float64    `yaml:"bottom_margin"`
	BassGain       float64    `yaml:"bass_gain"`
	MidGain        float64    `yaml:"mid_gain"`
	TrebleHueShift float64    `yaml:"treble_hue_shift"`
	Bands          BandConfig `yaml:"bands"`
}

// BandRange is a half-open range of frequency bin indices.
type BandRange struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

type BandConfig struct {
	Bass   BandRange `yaml:"bass"`
	Mid    BandRange `yaml:"mid"`
	Treble BandRange `yaml:"treble"`
}

type MessageConfig struct {
	Text     string        `yaml:"text"`
	Delay    time.Duration `yaml:"delay"`
	FadeIn   time.Duration `yaml:"fade_in"`
	FontPath string        `yaml:"font_path"` // empty = Go Regular plus a system CJK font
	FontSize float64       `yaml:"font_size"`
}

// Default returns the embedded defaults. It panics if they do not parse, which
// can only happen if defaults.yaml itself is broken.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the scene or analyser cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height))
	}
	if c.StaticStars.Count < 0 || c.Streaks.Count < 0 || c.Hearts.Count < 0 {
		errs = append(errs, errors.New("population counts must not be negative"))
	}
	if c.Streaks.MinSpeed <= 0 || c.Hearts.MinSpeed <= 0 {
		errs = append(errs, errors.New("particle min_speed must be positive"))
	}
	if n := c.Audio.FFTSize; n < 32 || n&(n-1) != 0 {
		errs = append(errs, fmt.Errorf("audio.fft_size must be a power of two >= 32, got %d", n))
	}
	if c.Audio.RingSize < c.Audio.FFTSize {
		errs = append(errs, fmt.Errorf("audio.ring_size %d is smaller than fft_size %d", c.Audio.RingSize, c.Audio.FFTSize))
	}
	if c.Audio.Smoothing < 0 || c.Audio.Smoothing >= 1 {
		errs = append(errs, fmt.Errorf("audio.smoothing must be in [0,1), got %g", c.Audio.Smoothing))
	}
	if c.Audio.MinDecibels >= c.Audio.MaxDecibels {
		errs = append(errs, errors.New("audio.min_decibels must be below max_decibels"))
	}
	if c.Audio.Volume < 0 {
		errs = append(errs, errors.New("audio.volume must not be negative"))
	}
	if c.Canvas.FadeAlpha < 0 || c.Canvas.FadeAlpha > 1 {
		errs = append(errs, fmt.Errorf("canvas.fade_alpha must be in [0,1], got %g", c.Canvas.FadeAlpha))
	}
	for name, b := range map[string]BandRange{
		"bass":   c.Hearts.Bands.Bass,
		"mid":    c.Hearts.Bands.Mid,
		"treble": c.Hearts.Bands.Treble,
	} {
		if b.Start < 0 || b.End <= b.Start {
			errs = append(errs, fmt.Errorf("hearts.bands.%s: empty range [%d,%d)", name, b.Start, b.End))
		}
	}
	if c.Message.Delay < 0 || c.Message.FadeIn < 0 {
		errs = append(errs, errors.New("message durations must not be negative"))
	}
	if c.Message.FontSize <= 0 {
		errs = append(errs, errors.New("message.font_size must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
