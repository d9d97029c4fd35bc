package ui

import (
	"fmt"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"sketchpad/internal/config"
	"sketchpad/internal/export"
	"sketchpad/internal/raster"
	"sketchpad/internal/state"
)

const defaultCustomSticker = "🧽"

func RunApp(cfg config.Config, session *state.Session, fonts *raster.Fonts) {
	myApp := app.New()
	myWindow := myApp.NewWindow("Sticker Sketchpad")

	board := NewBoardWidget(session, cfg.CanvasSize, fonts)
	status := widget.NewLabel(fmt.Sprintf("Canvas %d×%d, font %s", cfg.CanvasSize, cfg.CanvasSize, fonts.Name()))

	opts := export.Options{
		Width:  cfg.CanvasSize,
		Height: cfg.CanvasSize,
		Scale:  cfg.ExportScale,
		Fonts:  fonts,
	}

	actions := Actions{
		Export: func() {
			path, err := export.SavePNG(cfg.ExportDir, session, opts)
			if err != nil {
				log.Printf("[UI] Export failed: %v", err)
				dialog.ShowError(err, myWindow)
				return
			}
			status.SetText("Exported " + path)
		},
		ExportPDF: func() {
			save := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
				if err != nil {
					dialog.ShowError(err, myWindow)
					return
				}
				if w == nil {
					return
				}
				defer func() {
					if cerr := w.Close(); cerr != nil {
						log.Printf("[UI] Error closing %s: %v", w.URI(), cerr)
					}
				}()
				if err := export.WritePDF(w, session, opts); err != nil {
					log.Printf("[UI] PDF export failed: %v", err)
					dialog.ShowError(err, myWindow)
					return
				}
				status.SetText("Exported " + w.URI().String())
			}, myWindow)
			save.SetFileName("sketchpad.pdf")
			save.Show()
		},
		CustomSticker: func(onAdded func()) {
			entry := widget.NewEntry()
			entry.SetText(defaultCustomSticker)
			dialog.ShowForm("Custom sticker", "Add", "Cancel",
				[]*widget.FormItem{widget.NewFormItem("Text or emoji", entry)},
				func(ok bool) {
					if !ok {
						return
					}
					if session.AddCustomSticker(entry.Text) {
						onAdded()
					} else {
						status.SetText("Sticker text cannot be empty")
					}
				}, myWindow)
		},
	}
	toolbar := NewToolbar(session, actions)
	board.OnContentChanged = toolbar.Sync

	content := container.NewBorder(toolbar.Object, status, nil, nil, container.NewCenter(board))
	myWindow.SetContent(content)
	myWindow.Resize(fyne.NewSize(float32(cfg.CanvasSize)+400, float32(cfg.CanvasSize)+200))
	myWindow.ShowAndRun()
}
