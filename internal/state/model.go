package state

import (
	"image/color"

	"github.com/google/uuid"
)

// Point is a position in canvas coordinates (before any export scaling).
type Point struct{ X, Y float64 }

const (
	// ThinMarker and ThickMarker are the toolbar marker presets.
	ThinMarker  = 2.0
	ThickMarker = 7.0

	// StickerSize is the glyph size of a placed sticker in canvas units.
	StickerSize = 35.0

	previewRingWidth = 1.0
)

var (
	inkColor     = color.NRGBA{A: 255}
	previewColor = color.NRGBA{A: 128}
)

// Surface is the drawing target every Drawable and Preview paints onto.
// Implementations apply their own scale, so callers always pass canvas
// coordinates.
type Surface interface {
	Clear()
	StrokePolyline(points []Point, width float64, c color.Color)
	StrokeCircle(center Point, radius, width float64, c color.Color)
	DrawText(center Point, text string, size, rotation float64, c color.Color)
}

// Drawable is a committed, replayable element of the drawing.
// The set of implementations is closed: *Stroke and *Sticker.
type Drawable interface {
	ID() string
	Render(s Surface)
	drawable()
}

// Stroke is a freehand marker line. Points are appended while the stroke is
// open and frozen once it is finalized.
type Stroke struct {
	id        string
	points    []Point
	thickness float64
	closed    bool
}

func newStroke(thickness float64) *Stroke {
	return &Stroke{id: uuid.NewString(), thickness: thickness}
}

func (s *Stroke) ID() string         { return s.id }
func (s *Stroke) Thickness() float64 { return s.thickness }
func (s *Stroke) Closed() bool       { return s.closed }
func (s *Stroke) drawable()          {}

// Points returns a copy of the stroke's points.
func (s *Stroke) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// Render draws the stroke. A stroke with fewer than two points has nothing
// visible yet.
func (s *Stroke) Render(dst Surface) {
	if len(s.points) < 2 {
		return
	}
	dst.StrokePolyline(s.points, s.thickness, inkColor)
}

// Sticker is a glyph stamped at a position. It never changes after creation.
type Sticker struct {
	id       string
	at       Point
	glyph    string
	rotation float64
}

func (s *Sticker) ID() string        { return s.id }
func (s *Sticker) At() Point         { return s.at }
func (s *Sticker) Glyph() string     { return s.glyph }
func (s *Sticker) Rotation() float64 { return s.rotation }
func (s *Sticker) drawable()         {}

func (s *Sticker) Render(dst Surface) {
	dst.DrawText(s.at, s.glyph, StickerSize, s.rotation, inkColor)
}

// Preview is the transient cursor hint. It is a separate type from Drawable
// so it can never be committed to history.
type Preview interface {
	Render(s Surface)
	preview()
}

// MarkerPreview is the ring cursor shown in marker mode.
type MarkerPreview struct {
	At        Point
	Thickness float64
}

func (p *MarkerPreview) preview() {}

func (p *MarkerPreview) Render(dst Surface) {
	dst.StrokeCircle(p.At, p.Thickness/2, previewRingWidth, previewColor)
}

// StickerPreview is the translucent glyph shown in sticker mode.
type StickerPreview struct {
	At       Point
	Glyph    string
	Rotation float64
}

func (p *StickerPreview) preview() {}

func (p *StickerPreview) Render(dst Surface) {
	dst.DrawText(p.At, p.Glyph, StickerSize, p.Rotation, previewColor)
}
