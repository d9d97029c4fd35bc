package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"sketchpad/internal/state"
)

// toolGroup keeps exactly one tool button highlighted.
type toolGroup struct {
	buttons  []*widget.Button
	selected *widget.Button
}

func (g *toolGroup) add(label string, onSelect func()) *widget.Button {
	var btn *widget.Button
	btn = widget.NewButton(label, func() {
		onSelect()
		g.selectOnly(btn)
	})
	g.buttons = append(g.buttons, btn)
	return btn
}

func (g *toolGroup) selectOnly(sel *widget.Button) {
	g.selected = sel
	for _, b := range g.buttons {
		if b == sel {
			b.Importance = widget.HighImportance
		} else {
			b.Importance = widget.MediumImportance
		}
		b.Refresh()
	}
}

// forget drops buttons that are about to be rebuilt.
func (g *toolGroup) forget(drop []*widget.Button) {
	keep := g.buttons[:0]
outer:
	for _, b := range g.buttons {
		for _, d := range drop {
			if b == d {
				continue outer
			}
		}
		keep = append(keep, b)
	}
	g.buttons = keep
}

// Actions are the toolbar commands that need the window.
type Actions struct {
	Export        func()
	ExportPDF     func()
	CustomSticker func(onAdded func())
}

// Toolbar is the row of commands and tools above the board.
type Toolbar struct {
	session *state.Session
	tools   toolGroup

	undo, redo     *widget.Button
	stickerRow     *fyne.Container
	stickerButtons []*widget.Button

	Object fyne.CanvasObject
}

func NewToolbar(session *state.Session, actions Actions) *Toolbar {
	t := &Toolbar{session: session}

	clearBtn := widget.NewButton("Clear", session.Clear)
	t.undo = widget.NewButton("Undo", func() { session.Undo() })
	t.redo = widget.NewButton("Redo", func() { session.Redo() })
	exportBtn := widget.NewButton("Export PNG", actions.Export)
	exportPDF := widget.NewButton("Export PDF…", actions.ExportPDF)

	thin := t.tools.add("Thin Marker", func() { session.SelectMarker(state.ThinMarker) })
	thick := t.tools.add("Thick Marker", func() { session.SelectMarker(state.ThickMarker) })
	t.tools.selectOnly(thin)

	rotation := widget.NewSlider(0, 359)
	rotation.OnChanged = func(v float64) { session.SetStickerRotation(v) }
	rotationBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), rotation)

	t.stickerRow = container.NewHBox()
	t.rebuildStickers(actions)

	t.Object = container.NewVBox(
		container.NewHBox(clearBtn, t.undo, t.redo, exportBtn, exportPDF, widget.NewSeparator(), thin, thick),
		container.NewHBox(widget.NewLabel("Stickers:"), t.stickerRow, layout.NewSpacer(), widget.NewLabel("Rotation:"), rotationBox),
	)
	t.Sync()
	return t
}

func (t *Toolbar) rebuildStickers(actions Actions) {
	selected := ""
	for _, b := range t.stickerButtons {
		if b == t.tools.selected {
			selected = b.Text
		}
	}
	t.tools.forget(t.stickerButtons)
	t.stickerButtons = nil

	objects := []fyne.CanvasObject{}
	for _, glyph := range t.session.Stickers() {
		btn := t.tools.add(glyph, func() { t.session.SelectSticker(glyph) })
		if glyph == selected {
			t.tools.selectOnly(btn)
		}
		t.stickerButtons = append(t.stickerButtons, btn)
		objects = append(objects, btn)
	}
	objects = append(objects, widget.NewButton("+ Custom", func() {
		if actions.CustomSticker != nil {
			actions.CustomSticker(func() { t.rebuildStickers(actions) })
		}
	}))
	t.stickerRow.Objects = objects
	t.stickerRow.Refresh()
}

// Sync enables undo and redo only when they would do something.
func (t *Toolbar) Sync() {
	setEnabled(t.undo, t.session.CanUndo())
	setEnabled(t.redo, t.session.CanRedo())
}

func setEnabled(b *widget.Button, on bool) {
	if on {
		b.Enable()
	} else {
		b.Disable()
	}
}
