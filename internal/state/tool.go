package state

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Tool is the active drawing mode: *MarkerTool or *StickerTool, never both.
type Tool interface {
	Name() string
	tool()
}

// MarkerTool draws freehand strokes.
type MarkerTool struct {
	Thickness float64
}

func (t *MarkerTool) Name() string { return fmt.Sprintf("marker(%.0f)", t.Thickness) }
func (t *MarkerTool) tool()        {}

// StickerTool stamps Glyph on pointer-down.
type StickerTool struct {
	Glyph    string
	Rotation float64
}

func (t *StickerTool) Name() string { return fmt.Sprintf("sticker(%s)", t.Glyph) }
func (t *StickerTool) tool()        {}

// normalizeDegrees maps any angle into [0, 360).
func normalizeDegrees(deg float64) float64 {
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0
	}
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// DefaultStickers is the palette a new session starts with.
var DefaultStickers = []string{"😀", "⭐", "🔥"}

// Palette is the ordered list of stickers offered to the user.
type Palette struct {
	glyphs []string
}

func NewPalette(initial ...string) *Palette {
	p := &Palette{}
	for _, g := range initial {
		_ = p.Add(g)
	}
	return p
}

// Add appends a custom sticker. Text is trimmed and NFC-normalized; blank
// input is rejected with ErrEmptyGlyph. Duplicates are kept.
func (p *Palette) Add(text string) error {
	glyph := norm.NFC.String(strings.TrimSpace(text))
	if glyph == "" {
		return ErrEmptyGlyph
	}
	p.glyphs = append(p.glyphs, glyph)
	return nil
}

// Glyphs returns a copy of the palette in display order.
func (p *Palette) Glyphs() []string {
	out := make([]string, len(p.glyphs))
	copy(out, p.glyphs)
	return out
}

func (p *Palette) Len() int { return len(p.glyphs) }
