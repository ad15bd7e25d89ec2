package game

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"

	"github.com/iburimskiy/heart-rain/internal/config"
)

// systemFontPaths are well-known CJK fonts tried in order when no font is
// configured. The first one that parses is used next to Go Regular.
var systemFontPaths = []string{
	// Linux
	"/usr/share/fonts/opentype/noto/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/google-noto-cjk/NotoSansCJK-Regular.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-microhei.ttc",
	"/usr/share/fonts/truetype/wqy/wqy-zenhei.ttc",
	"/usr/share/fonts/wenquanyi/wqy-microhei/wqy-microhei.ttc",
	// Windows
	`C:\Windows\Fonts\simhei.ttf`,
	`C:\Windows\Fonts\msyh.ttc`,
	// macOS
	"/System/Library/Fonts/PingFang.ttc",
	"/System/Library/Fonts/Hiragino Sans GB.ttc",
	"/System/Library/Fonts/STHeiti Medium.ttc",
}

type fontFile struct {
	name   string
	source *text.GoTextFaceSource
	glyphs *sfnt.Font // nil when the glyph table could not be read
}

func parseFont(name string, data []byte) (*fontFile, error) {
	ff := &fontFile{name: name}

	if bytes.HasPrefix(data, []byte("ttcf")) {
		sources, err := text.NewGoTextFaceSourcesFromCollection(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing font collection %s: %w", name, err)
		}
		if len(sources) == 0 {
			return nil, fmt.Errorf("font collection %s is empty", name)
		}
		ff.source = sources[0]
		if c, err := sfnt.ParseCollection(data); err == nil {
			ff.glyphs, _ = c.Font(0)
		}
		return ff, nil
	}

	src, err := text.NewGoTextFaceSource(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing font %s: %w", name, err)
	}
	ff.source = src
	ff.glyphs, _ = sfnt.Parse(data)
	return ff, nil
}

func (f *fontFile) covers(buf *sfnt.Buffer, r rune) bool {
	if f.glyphs == nil {
		return false
	}
	idx, err := f.glyphs.GlyphIndex(buf, r)
	return err == nil && idx != 0
}

// LoadFace builds the message face. A configured font comes first; otherwise
// Go Regular handles Latin text and the first system CJK font found handles
// the rest. Characters no loaded font can draw are logged.
func LoadFace(cfg config.MessageConfig) (text.Face, error) {
	face, missing, err := loadFace(cfg, systemFontPaths)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		slog.Warn("no font has glyphs for the message; set message.font_path",
			"missing", string(missing),
			"text", cfg.Text,
		)
	}
	return face, nil
}

// loadFace returns the face for cfg together with the runes of cfg.Text that
// none of its fonts cover.
func loadFace(cfg config.MessageConfig, candidates []string) (text.Face, []rune, error) {
	regular, err := parseFont("Go Regular", goregular.TTF)
	if err != nil {
		return nil, nil, err
	}

	var fonts []*fontFile
	if cfg.FontPath != "" {
		data, err := os.ReadFile(cfg.FontPath)
		if err != nil {
			return nil, nil, fmt.Errorf("reading font: %w", err)
		}
		custom, err := parseFont(cfg.FontPath, data)
		if err != nil {
			return nil, nil, err
		}
		fonts = append(fonts, custom, regular)
	} else {
		fonts = append(fonts, regular)
		if cjk := firstSystemFont(candidates); cjk != nil {
			fonts = append(fonts, cjk)
		}
	}

	faces := make([]text.Face, len(fonts))
	for i, f := range fonts {
		faces[i] = &text.GoTextFace{Source: f.source, Size: cfg.FontSize}
	}
	missing := missingGlyphs(cfg.Text, fonts)

	if len(faces) == 1 {
		return faces[0], missing, nil
	}
	multi, err := text.NewMultiFace(faces...)
	if err != nil {
		return nil, nil, fmt.Errorf("combining fonts: %w", err)
	}
	return multi, missing, nil
}

func firstSystemFont(paths []string) *fontFile {
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				slog.Debug("skipping font", "path", p, "error", err)
			}
			continue
		}
		f, err := parseFont(p, data)
		if err != nil {
			slog.Debug("skipping font", "path", p, "error", err)
			continue
		}
		slog.Info("using system font for the message", "path", p)
		return f
	}
	return nil
}

// missingGlyphs lists, once each and in order, the non-space runes of s that
// no font has a glyph for.
func missingGlyphs(s string, fonts []*fontFile) []rune {
	var (
		buf     sfnt.Buffer
		missing []rune
	)
	for _, r := range s {
		if unicode.IsSpace(r) || slices.Contains(missing, r) {
			continue
		}
		covered := slices.ContainsFunc(fonts, func(f *fontFile) bool { return f.covers(&buf, r) })
		if !covered {
			missing = append(missing, r)
		}
	}
	return missing
}
