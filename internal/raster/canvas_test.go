package raster

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"sketchpad/internal/state"
)

var black = color.NRGBA{A: 255}

func opaquePixels(img *image.RGBA, r image.Rectangle) int {
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if img.RGBAAt(x, y).A > 0 {
				n++
			}
		}
	}
	return n
}

func TestNewScalesBackingImage(t *testing.T) {
	c := New(256, 128, 4, nil)
	if got := c.Image().Bounds().Size(); got != image.Pt(1024, 512) {
		t.Fatalf("expected 1024x512, got %v", got)
	}
}

func TestStrokePolylinePaints(t *testing.T) {
	c := New(64, 64, 1, nil)
	c.StrokePolyline([]state.Point{{X: 8, Y: 32}, {X: 56, Y: 32}}, 4, black)

	if c.Image().RGBAAt(32, 32).A == 0 {
		t.Fatal("expected the line centre to be painted")
	}
	if c.Image().RGBAAt(32, 10).A != 0 {
		t.Fatal("expected pixels far from the line to stay transparent")
	}
}

func TestStrokePolylineNeedsTwoPoints(t *testing.T) {
	c := New(32, 32, 1, nil)
	c.StrokePolyline([]state.Point{{X: 16, Y: 16}}, 7, black)
	if n := opaquePixels(c.Image(), c.Image().Bounds()); n != 0 {
		t.Fatalf("expected nothing painted, got %d pixels", n)
	}
}

func TestStrokeScalesWithCanvas(t *testing.T) {
	small := New(64, 64, 1, nil)
	big := New(64, 64, 4, nil)
	line := []state.Point{{X: 8, Y: 32}, {X: 56, Y: 32}}
	small.StrokePolyline(line, 2, black)
	big.StrokePolyline(line, 2, black)

	if big.Image().RGBAAt(128, 128).A == 0 {
		t.Fatal("expected scaled line at (128,128)")
	}
	s := opaquePixels(small.Image(), small.Image().Bounds())
	b := opaquePixels(big.Image(), big.Image().Bounds())
	if b < s*8 {
		t.Fatalf("expected roughly 16x coverage when scaled by 4, got %d vs %d", b, s)
	}
}

func TestStrokeCircleDrawsRing(t *testing.T) {
	c := New(64, 64, 1, nil)
	c.StrokeCircle(state.Point{X: 32, Y: 32}, 10, 1, black)

	if c.Image().RGBAAt(32, 32).A != 0 {
		t.Fatal("expected the ring centre to stay empty")
	}
	if opaquePixels(c.Image(), image.Rect(20, 20, 44, 44)) == 0 {
		t.Fatal("expected ring pixels around the centre")
	}
}

func TestDrawTextPaintsAroundCentre(t *testing.T) {
	for _, rotation := range []float64{0, 45} {
		c := New(128, 128, 1, nil)
		c.DrawText(state.Point{X: 64, Y: 64}, "Hi", 35, rotation, black)

		if opaquePixels(c.Image(), image.Rect(34, 34, 94, 94)) == 0 {
			t.Fatalf("expected glyph pixels near the centre at rotation %.0f", rotation)
		}
		if opaquePixels(c.Image(), image.Rect(0, 0, 16, 16)) != 0 {
			t.Fatalf("expected the corner to stay empty at rotation %.0f", rotation)
		}
	}
}

func TestDefaultStickersRenderDistinctGlyphs(t *testing.T) {
	fonts := DefaultFonts()
	if !fonts.HasEmoji() {
		t.Fatal("expected the emoji fallback font to be loaded")
	}
	var prev []byte
	for _, glyph := range state.DefaultStickers {
		c := New(128, 128, 1, fonts)
		c.DrawText(state.Point{X: 64, Y: 64}, glyph, state.StickerSize, 0, black)

		if opaquePixels(c.Image(), c.Image().Bounds()) == 0 {
			t.Fatalf("expected pixels for %q", glyph)
		}
		if prev != nil && bytes.Equal(prev, c.Image().Pix) {
			t.Fatalf("expected %q to differ from the previous sticker", glyph)
		}
		prev = c.Image().Pix
	}
}

func TestSplitRunsFallsBackPerRune(t *testing.T) {
	c := New(32, 32, 1, nil)

	runs := c.splitRuns("Hi😀!", 20)
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].text != "Hi" || runs[1].text != "😀" || runs[2].text != "!" {
		t.Fatalf("expected runs Hi|😀|!, got %q|%q|%q", runs[0].text, runs[1].text, runs[2].text)
	}
	if runs[0].face == runs[1].face {
		t.Fatal("expected the emoji run to use the fallback face")
	}

	// The variation selector stays with the emoji it modifies.
	runs = c.splitRuns("⭐\uFE0F", 20)
	if len(runs) != 1 {
		t.Fatalf("expected one run for an emoji with a variation selector, got %d", len(runs))
	}
}

func TestClearResetsPixels(t *testing.T) {
	c := New(32, 32, 1, nil)
	c.StrokePolyline([]state.Point{{X: 0, Y: 0}, {X: 32, Y: 32}}, 3, black)
	c.Clear()
	if n := opaquePixels(c.Image(), c.Image().Bounds()); n != 0 {
		t.Fatalf("expected a blank canvas, got %d pixels", n)
	}
}

func TestLoadFontsMissingFile(t *testing.T) {
	if _, err := LoadFonts("/does/not/exist.ttf"); err == nil {
		t.Fatal("expected error for a missing font file")
	}
}
