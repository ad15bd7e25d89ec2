package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.StaticStars.Count != 200 || cfg.Streaks.Count != 50 || cfg.Hearts.Count != 30 {
		t.Errorf("populations = %d/%d/%d, want 200/50/30",
			cfg.StaticStars.Count, cfg.Streaks.Count, cfg.Hearts.Count)
	}
	if cfg.Audio.FFTSize != 256 || cfg.Audio.Bins() != 128 {
		t.Errorf("fft_size = %d (bins %d), want 256 (128)", cfg.Audio.FFTSize, cfg.Audio.Bins())
	}
	if cfg.Message.Delay != 10*time.Second {
		t.Errorf("message delay = %v, want 10s", cfg.Message.Delay)
	}
	if cfg.Message.Text != "我喜欢你" {
		t.Errorf("message text = %q", cfg.Message.Text)
	}
	if cfg.StaticStars.TwinkleSpeed != 0.02 {
		t.Errorf("twinkle speed = %g, want 0.02", cfg.StaticStars.TwinkleSpeed)
	}
	b := cfg.Hearts.Bands
	if b.Bass != (BandRange{0, 4}) || b.Mid != (BandRange{4, 12}) || b.Treble != (BandRange{12, 20}) {
		t.Errorf("bands = %+v", b)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := "hearts:\n  count: 12\nmessage:\n  delay: 3s\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Hearts.Count != 12 {
		t.Errorf("hearts.count = %d, want 12", cfg.Hearts.Count)
	}
	if cfg.Hearts.MinSize != 10 {
		t.Errorf("hearts.min_size = %g, want default 10", cfg.Hearts.MinSize)
	}
	if cfg.Message.Delay != 3*time.Second {
		t.Errorf("message.delay = %v, want 3s", cfg.Message.Delay)
	}
	if cfg.Message.Text != "我喜欢你" {
		t.Errorf("message.text = %q, want default", cfg.Message.Text)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"malformed yaml", "hearts: [", "parsing config file"},
		{"fft not power of two", "audio:\n  fft_size: 300\n", "fft_size"},
		{"empty band", "hearts:\n  bands:\n    mid: {start: 5, end: 5}\n", "hearts.bands.mid"},
		{"negative population", "streaks:\n  count: -1\n", "population counts"},
		{"smoothing out of range", "audio:\n  smoothing: 1\n", "audio.smoothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if err == nil {
				t.Fatalf("Load succeeded, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}
