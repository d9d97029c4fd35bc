// Package raster paints the sketchpad onto in-memory RGBA images.
package raster

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"math"

	"github.com/srwiley/rasterx"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"

	"sketchpad/internal/state"
)

const miterLimit = 4

// Canvas is a state.Surface backed by an *image.RGBA. Every coordinate,
// width and glyph size passed in is multiplied by the canvas scale, so the
// same drawables paint identically at any resolution.
type Canvas struct {
	img    *image.RGBA
	scale  float64
	dasher *rasterx.Dasher
	fonts  *Fonts
	faces  map[faceKey]font.Face
	buf    sfnt.Buffer
}

type faceKey struct {
	which fontChoice
	px    float64
}

// textRun is a stretch of text drawn with a single face.
type textRun struct {
	text string
	face font.Face
}

var _ state.Surface = (*Canvas)(nil)

// New allocates a canvas of width×height canvas units at the given scale.
// The backing image is width*scale × height*scale pixels.
func New(width, height int, scale float64, fonts *Fonts) *Canvas {
	if scale <= 0 {
		scale = 1
	}
	if fonts == nil {
		fonts = DefaultFonts()
	}
	w := int(math.Round(float64(width) * scale))
	h := int(math.Round(float64(height) * scale))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	return &Canvas{
		img:    img,
		scale:  scale,
		dasher: rasterx.NewDasher(w, h, scanner),
		fonts:  fonts,
		faces:  make(map[faceKey]font.Face),
	}
}

func (c *Canvas) Image() *image.RGBA { return c.img }
func (c *Canvas) Scale() float64     { return c.scale }

// Clear resets every pixel to transparent.
func (c *Canvas) Clear() {
	draw.Draw(c.img, c.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

func (c *Canvas) StrokePolyline(points []state.Point, width float64, col color.Color) {
	if len(points) < 2 {
		return
	}
	c.setStroke(width)
	c.dasher.Start(c.fixed(points[0]))
	for _, p := range points[1:] {
		c.dasher.Line(c.fixed(p))
	}
	c.dasher.Stop(false)
	c.paint(col)
}

func (c *Canvas) StrokeCircle(center state.Point, radius, width float64, col color.Color) {
	if radius <= 0 {
		return
	}
	c.setStroke(width)
	rasterx.AddCircle(center.X*c.scale, center.Y*c.scale, radius*c.scale, c.dasher)
	c.paint(col)
}

// DrawText paints text centred on center, rotated clockwise by rotation
// degrees about that point.
func (c *Canvas) DrawText(center state.Point, text string, size, rotation float64, col color.Color) {
	glyph := c.renderText(text, size*c.scale, col)
	if glyph == nil {
		return
	}
	b := glyph.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	cx, cy := center.X*c.scale, center.Y*c.scale

	if rotation == 0 {
		at := image.Pt(int(math.Round(cx-w/2)), int(math.Round(cy-h/2)))
		draw.Draw(c.img, b.Add(at), glyph, image.Point{}, draw.Over)
		return
	}

	rad := rotation * math.Pi / 180
	sin, cos := math.Sincos(rad)
	// Maps glyph pixels to canvas pixels: translate the glyph centre to the
	// origin, rotate, then move it to (cx, cy).
	m := f64.Aff3{
		cos, -sin, cx - cos*w/2 + sin*h/2,
		sin, cos, cy - sin*w/2 - cos*h/2,
	}
	xdraw.BiLinear.Transform(c.img, m, glyph, b, xdraw.Over, nil)
}

func (c *Canvas) renderText(text string, px float64, col color.Color) *image.RGBA {
	runs := c.splitRuns(text, px)
	if len(runs) == 0 {
		return nil
	}
	var width, ascent, descent fixed.Int26_6
	for _, r := range runs {
		width += font.MeasureString(r.face, r.text)
		m := r.face.Metrics()
		ascent = max(ascent, m.Ascent)
		descent = max(descent, m.Descent)
	}
	w, h := width.Ceil(), (ascent + descent).Ceil()
	if w <= 0 || h <= 0 {
		return nil
	}
	glyph := image.NewRGBA(image.Rect(0, 0, w, h))
	d := &font.Drawer{
		Dst: glyph,
		Src: image.NewUniform(col),
		Dot: fixed.Point26_6{Y: ascent},
	}
	for _, r := range runs {
		d.Face = r.face
		d.DrawString(r.text)
	}
	return glyph
}

// splitRuns groups consecutive runes that render with the same font.
func (c *Canvas) splitRuns(text string, px float64) []textRun {
	var runs []textRun
	current, start := primaryFont, 0
	flush := func(end int) {
		if end == start {
			return
		}
		if face := c.face(current, px); face != nil {
			runs = append(runs, textRun{text: text[start:end], face: face})
		}
		start = end
	}
	for i, r := range text {
		which := c.fonts.choose(&c.buf, r)
		if which == anyFont || which == current {
			continue
		}
		flush(i)
		current = which
	}
	flush(len(text))
	return runs
}

func (c *Canvas) face(which fontChoice, px float64) font.Face {
	key := faceKey{which: which, px: px}
	if f, ok := c.faces[key]; ok {
		return f
	}
	f, err := c.fonts.newFace(which, px)
	if err != nil {
		log.Printf("[RASTER] %v", err)
		return nil
	}
	c.faces[key] = f
	return f
}

func (c *Canvas) setStroke(width float64) {
	c.dasher.SetStroke(
		fixed.Int26_6(width*c.scale*64),
		fixed.Int26_6(miterLimit*64),
		rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round,
		nil, 0)
}

func (c *Canvas) paint(col color.Color) {
	c.dasher.SetColor(col)
	c.dasher.Draw()
	c.dasher.Clear()
}

func (c *Canvas) fixed(p state.Point) fixed.Point26_6 {
	return rasterx.ToFixedP(p.X*c.scale, p.Y*c.scale)
}
