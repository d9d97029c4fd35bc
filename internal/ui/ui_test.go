package ui

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"sketchpad/internal/raster"
	"sketchpad/internal/state"
)

func newBoard(t *testing.T) (*BoardWidget, *state.Session) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	session := state.NewSession(state.Options{})
	board := NewBoardWidget(session, 256, raster.DefaultFonts())
	board.Resize(fyne.NewSize(256, 256))
	return board, session
}

func press(b *BoardWidget, x, y float32) {
	b.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)},
		Button:     desktop.MouseButtonPrimary,
	})
}

func TestBoardDragDrawsStroke(t *testing.T) {
	board, session := newBoard(t)

	press(board, 10, 10)
	board.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)}})
	board.DragEnd()

	drawables := session.Drawables()
	if len(drawables) != 1 {
		t.Fatalf("expected one stroke, got %d", len(drawables))
	}
	stroke, ok := drawables[0].(*state.Stroke)
	if !ok || len(stroke.Points()) != 2 {
		t.Fatalf("expected a two point stroke, got %#v", drawables[0])
	}
	if session.Mode() != state.Idle {
		t.Fatalf("expected idle after drag end, got %v", session.Mode())
	}
}

func TestBoardScalesToCanvasUnits(t *testing.T) {
	board, session := newBoard(t)
	board.Resize(fyne.NewSize(512, 512))

	session.SelectSticker("⭐")
	press(board, 100, 200)

	sticker, ok := session.Drawables()[0].(*state.Sticker)
	if !ok {
		t.Fatal("expected a sticker")
	}
	if got := sticker.At(); got != (state.Point{X: 50, Y: 100}) {
		t.Fatalf("expected sticker at (50,100), got %v", got)
	}
}

func TestMouseOutEndsStroke(t *testing.T) {
	board, session := newBoard(t)

	press(board, 10, 10)
	board.MouseOut()
	if session.Mode() != state.Idle {
		t.Fatalf("expected idle after leaving the board, got %v", session.Mode())
	}
}

func TestToolbarTracksUndoRedo(t *testing.T) {
	board, session := newBoard(t)
	toolbar := NewToolbar(session, Actions{})
	board.OnContentChanged = toolbar.Sync

	if !toolbar.undo.Disabled() || !toolbar.redo.Disabled() {
		t.Fatal("expected undo and redo disabled on an empty board")
	}

	session.SelectSticker("😀")
	press(board, 20, 20)
	if toolbar.undo.Disabled() {
		t.Fatal("expected undo enabled after placing a sticker")
	}

	test.Tap(toolbar.undo)
	if len(session.Drawables()) != 0 {
		t.Fatalf("expected undo to remove the sticker, got %d drawables", len(session.Drawables()))
	}
	if toolbar.redo.Disabled() {
		t.Fatal("expected redo enabled after undo")
	}
}

func TestToolbarHighlightsOneTool(t *testing.T) {
	_, session := newBoard(t)
	toolbar := NewToolbar(session, Actions{})

	test.Tap(toolbar.stickerButtons[1])
	if tool, ok := session.Tool().(*state.StickerTool); !ok || tool.Glyph != "⭐" {
		t.Fatalf("expected the star sticker tool, got %v", session.Tool().Name())
	}
	high := 0
	for _, b := range toolbar.tools.buttons {
		if b.Importance == widget.HighImportance {
			high++
		}
	}
	if high != 1 || toolbar.stickerButtons[1].Importance != widget.HighImportance {
		t.Fatalf("expected only the star highlighted, got %d highlighted", high)
	}
}

func TestEachStickerButtonSelectsItsGlyph(t *testing.T) {
	_, session := newBoard(t)
	toolbar := NewToolbar(session, Actions{})

	for i, glyph := range session.Stickers() {
		test.Tap(toolbar.stickerButtons[i])
		tool, ok := session.Tool().(*state.StickerTool)
		if !ok || tool.Glyph != glyph {
			t.Fatalf("expected button %d to select %q, got %v", i, glyph, session.Tool().Name())
		}
	}
}

func TestCustomStickerRebuildsRow(t *testing.T) {
	_, session := newBoard(t)
	toolbar := NewToolbar(session, Actions{
		CustomSticker: func(onAdded func()) {
			if session.AddCustomSticker("🧽") {
				onAdded()
			}
		},
	})

	custom := toolbar.stickerRow.Objects[len(toolbar.stickerRow.Objects)-1].(*widget.Button)
	test.Tap(custom)

	if len(toolbar.stickerButtons) != 4 || toolbar.stickerButtons[3].Text != "🧽" {
		t.Fatalf("expected the custom sticker button, got %d buttons", len(toolbar.stickerButtons))
	}
}
