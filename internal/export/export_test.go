package export

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"sketchpad/internal/state"
)

var canvas256 = Options{Width: 256, Height: 256}

func countOpaque(img image.Image) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				n++
			}
		}
	}
	return n
}

func drawStroke(s *state.Session, pts ...state.Point) {
	s.OnPointerDown(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.OnPointerMove(p.X, p.Y)
	}
	s.OnPointerUp()
}

func TestExportIsFourTimesCanvas(t *testing.T) {
	s := state.NewSession(state.Options{})
	drawStroke(s, state.Point{X: 10, Y: 128}, state.Point{X: 246, Y: 128})

	data, err := EncodePNG(s, canvas256)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(1024, 1024) {
		t.Fatalf("expected 1024x1024, got %v", got)
	}
	if _, _, _, a := img.At(512, 512).RGBA(); a == 0 {
		t.Fatal("expected the stroke at the scaled midpoint")
	}
}

func TestExportIncludesEveryDrawable(t *testing.T) {
	s := state.NewSession(state.Options{})
	drawStroke(s, state.Point{X: 10, Y: 20}, state.Point{X: 60, Y: 20})
	s.SelectSticker("A")
	s.SetStickerRotation(30)
	s.OnPointerDown(200, 200)

	img := Render(s, canvas256)
	if img.RGBAAt(35*4, 20*4).A == 0 {
		t.Fatal("expected the stroke in the export")
	}
	stickerArea := img.SubImage(image.Rect(150*4, 150*4, 250*4, 250*4))
	if countOpaque(stickerArea) == 0 {
		t.Fatal("expected the sticker in the export")
	}
}

func TestExportKeepsStickerGlyph(t *testing.T) {
	exportSticker := func(glyph string) []byte {
		s := state.NewSession(state.Options{})
		s.SelectSticker(glyph)
		s.OnPointerDown(128, 128)
		return Render(s, canvas256).Pix
	}

	smile, fire := exportSticker("😀"), exportSticker("🔥")
	if bytes.Equal(smile, fire) {
		t.Fatal("expected different stickers to export different pixels")
	}
}

func TestExportOmitsPreview(t *testing.T) {
	s := state.NewSession(state.Options{})
	s.OnPointerMove(100, 100)
	s.SelectSticker("⭐")
	s.OnPointerMove(50, 50)
	if s.Preview() == nil {
		t.Fatal("expected a live preview")
	}

	if n := countOpaque(Render(s, canvas256)); n != 0 {
		t.Fatalf("expected a blank export, got %d painted pixels", n)
	}
}

func TestSavePNGUsesFixedName(t *testing.T) {
	dir := t.TempDir()
	s := state.NewSession(state.Options{})

	path, err := SavePNG(dir, s, canvas256)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if filepath.Base(path) != "sketchpad.png" {
		t.Fatalf("expected sketchpad.png, got %s", path)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode config: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 1024 {
		t.Fatalf("expected 1024x1024, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCustomScale(t *testing.T) {
	s := state.NewSession(state.Options{})
	img := Render(s, Options{Width: 100, Height: 50, Scale: 2})
	if got := img.Bounds().Size(); got != image.Pt(200, 100) {
		t.Fatalf("expected 200x100, got %v", got)
	}
}

func TestWritePDF(t *testing.T) {
	s := state.NewSession(state.Options{})
	drawStroke(s, state.Point{X: 0, Y: 0}, state.Point{X: 256, Y: 256})

	var buf bytes.Buffer
	if err := WritePDF(&buf, s, canvas256); err != nil {
		t.Fatalf("write pdf: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Fatalf("expected a PDF header, got %q", buf.Bytes()[:8])
	}
}
