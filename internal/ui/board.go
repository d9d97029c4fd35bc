package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"sketchpad/internal/raster"
	"sketchpad/internal/state"
)

// BoardWidget shows a session's canvas and forwards pointer input to it.
type BoardWidget struct {
	widget.BaseWidget
	session *state.Session
	surface *raster.Canvas
	size    int
	frame   *image.RGBA
	raster  *canvas.Raster

	// OnContentChanged runs after every history mutation.
	OnContentChanged func()
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)
var _ desktop.Hoverable = (*BoardWidget)(nil)

func NewBoardWidget(session *state.Session, size int, fonts *raster.Fonts) *BoardWidget {
	b := &BoardWidget{
		session: session,
		surface: raster.New(size, size, 1, fonts),
		size:    size,
	}
	b.raster = canvas.NewRaster(func(int, int) image.Image { return b.frame })
	b.repaint()
	session.Subscribe(func(e state.Event) {
		b.repaint()
		if e == state.ContentChanged && b.OnContentChanged != nil {
			b.OnContentChanged()
		}
	})
	b.ExtendBaseWidget(b)
	return b
}

// repaint redraws the session into a fresh frame so the raster never reads
// an image that is being painted.
func (b *BoardWidget) repaint() {
	b.session.Redraw(b.surface)
	src := b.surface.Image()
	frame := image.NewRGBA(src.Bounds())
	copy(frame.Pix, src.Pix)
	b.frame = frame
	b.raster.Refresh()
}

func (b *BoardWidget) toCanvas(pos fyne.Position) (float64, float64) {
	sz := b.Size()
	if sz.Width <= 0 || sz.Height <= 0 {
		return float64(pos.X), float64(pos.Y)
	}
	return float64(pos.X * float32(b.size) / sz.Width), float64(pos.Y * float32(b.size) / sz.Height)
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.OnPointerDown(b.toCanvas(e.Position))
	}
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary {
		b.session.OnPointerUp()
	}
}

func (b *BoardWidget) MouseIn(e *desktop.MouseEvent) {
	b.session.OnPointerMove(b.toCanvas(e.Position))
}

func (b *BoardWidget) MouseMoved(e *desktop.MouseEvent) {
	b.session.OnPointerMove(b.toCanvas(e.Position))
}

func (b *BoardWidget) MouseOut() { b.session.OnPointerLeave() }

// Fyne reports moves with the button held as drags rather than hovers.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.session.OnPointerMove(b.toCanvas(e.Position))
}

func (b *BoardWidget) DragEnd() { b.session.OnPointerUp() }

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	return &boardWidgetRenderer{
		board:      b,
		background: canvas.NewRectangle(color.White),
	}
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.board.raster}
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.board.raster.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	s := float32(r.board.size)
	return fyne.NewSize(s, s)
}

func (r *boardWidgetRenderer) Refresh() {
	r.board.raster.Refresh()
	canvas.Refresh(r.board)
}

func (r *boardWidgetRenderer) Destroy() {}
