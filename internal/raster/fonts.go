package raster

import (
	"fmt"
	"os"

	"fyne.io/fyne/v2/theme"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
)

// Fonts holds the parsed fonts shared between canvases. Faces are not safe
// for concurrent use, so each Canvas builds and caches its own.
type Fonts struct {
	font  *opentype.Font
	emoji *opentype.Font
	name  string
}

// LoadFonts parses the TTF/OTF file at path, or the bundled Go Regular font
// when path is empty. Runes the primary font lacks fall back to the emoji
// font that ships with Fyne.
func LoadFonts(path string) (*Fonts, error) {
	data, name := goregular.TTF, "goregular"
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read font %s: %w", path, err)
		}
		data, name = b, path
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	fonts := &Fonts{font: f, name: name}

	// nil when Fyne is built with the no_emoji tag.
	if res := theme.DefaultEmojiFont(); res != nil {
		emoji, err := opentype.Parse(res.Content())
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", res.Name(), err)
		}
		fonts.emoji = emoji
	}
	return fonts, nil
}

// DefaultFonts returns the bundled Go Regular font with the emoji fallback.
func DefaultFonts() *Fonts {
	f, err := LoadFonts("")
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Fonts) Name() string { return f.name }

// HasEmoji reports whether an emoji fallback font is loaded.
func (f *Fonts) HasEmoji() bool { return f.emoji != nil }

// fontChoice selects which loaded font renders a rune.
type fontChoice int

const (
	primaryFont fontChoice = iota
	emojiFont
	anyFont
)

// choose picks the font for r. Runes neither font covers, such as variation
// selectors, report anyFont and stay with the surrounding run.
func (f *Fonts) choose(buf *sfnt.Buffer, r rune) fontChoice {
	if i, err := f.font.GlyphIndex(buf, r); err == nil && i != 0 {
		return primaryFont
	}
	if f.emoji != nil {
		if i, err := f.emoji.GlyphIndex(buf, r); err == nil && i != 0 {
			return emojiFont
		}
	}
	return anyFont
}

func (f *Fonts) newFace(which fontChoice, size float64) (font.Face, error) {
	src := f.font
	if which == emojiFont && f.emoji != nil {
		src = f.emoji
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("new face %.1fpx: %w", size, err)
	}
	return face, nil
}
