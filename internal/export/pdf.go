package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const pdfImageName = "sketchpad"

// WritePDF writes a single-page PDF, sized to the live canvas in points,
// with the upscaled PNG export filling the page.
func WritePDF(w io.Writer, src Source, opts Options) error {
	opts = opts.withDefaults()
	var img bytes.Buffer
	if err := WritePNG(&img, src, opts); err != nil {
		return err
	}

	width, height := float64(opts.Width), float64(opts.Height)
	p := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader(pdfImageName, imgOpts, &img)
	p.ImageOptions(pdfImageName, 0, 0, width, height, false, imgOpts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
