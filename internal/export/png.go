// Package export renders the committed drawing off-screen and serialises it.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"

	"sketchpad/internal/raster"
	"sketchpad/internal/state"
)

const (
	// DefaultScale upscales a 256×256 canvas to a 1024×1024 image.
	DefaultScale = 4
	// FileName is the name of the PNG written by SavePNG.
	FileName = "sketchpad.png"
)

// Source is anything holding committed drawables, such as a *state.Session.
type Source interface {
	Drawables() []state.Drawable
}

// Options describe the live canvas and how much to upscale it.
type Options struct {
	Width, Height int
	Scale         int
	Fonts         *raster.Fonts
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	return o
}

// Render paints every committed drawable onto a fresh canvas of
// Width*Scale × Height*Scale pixels. Previews are never part of a Source, so
// they never reach the export.
func Render(src Source, opts Options) *image.RGBA {
	opts = opts.withDefaults()
	c := raster.New(opts.Width, opts.Height, float64(opts.Scale), opts.Fonts)
	c.Clear()
	for _, d := range src.Drawables() {
		d.Render(c)
	}
	return c.Image()
}

// WritePNG renders src and encodes it losslessly to w.
func WritePNG(w io.Writer, src Source, opts Options) error {
	img := Render(src, opts)
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// EncodePNG is WritePNG into memory.
func EncodePNG(src Source, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePNG(&buf, src, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SavePNG writes FileName into dir and returns its path.
func SavePNG(dir string, src Source, opts Options) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, FileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := WritePNG(f, src, opts); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	log.Printf("[EXPORT] Saved %s", path)
	return path, nil
}
