package main

import (
	"errors"
	"flag"
	"log/slog"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/ncruces/zenity"

	"github.com/iburimskiy/heart-rain/internal/audio"
	"github.com/iburimskiy/heart-rain/internal/config"
	"github.com/iburimskiy/heart-rain/internal/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	trackPath := flag.String("track", "", "Background track (wav, mp3 or flac); empty opens a file dialog")
	seed := flag.Uint64("seed", 0, "RNG seed (0 = time-based)")
	debug := flag.Bool("debug", false, "Show state, elapsed time and track position")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	if err := level.UnmarshalText([]byte(*logLevel)); err != nil {
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if err := run(*configPath, *trackPath, *seed, *debug); err != nil {
		slog.Error("heart-rain stopped", "error", err)
		os.Exit(1)
	}
}

func run(configPath, trackPath string, seed uint64, debug bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if trackPath == "" {
		trackPath = chooseTrack()
	}

	opts := game.Options{Config: cfg, Debug: debug}

	if trackPath != "" {
		player, err := audio.Open(trackPath, cfg.Audio)
		if err != nil {
			return err
		}
		defer player.Close()
		opts.Track = player
		opts.Spectrum = audio.NewAnalyser(player.Tap(), cfg.Audio)
	} else {
		slog.Warn("no track selected, running without music")
	}

	face, err := game.LoadFace(cfg.Message)
	if err != nil {
		return err
	}
	opts.Face = face

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	opts.Rand = rand.New(rand.NewPCG(seed, seed>>32))
	slog.Info("starting", "seed", seed, "config", configPath, "track", trackPath)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := game.New(opts)
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// chooseTrack asks for a track with the native file dialog. An empty result
// means the effect runs silently.
func chooseTrack() string {
	filename, err := zenity.SelectFile(
		zenity.Title("Choose background music"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
	if err != nil {
		if !errors.Is(err, zenity.ErrCanceled) {
			slog.Warn("file dialog unavailable", "error", err)
		}
		return ""
	}
	return filename
}
