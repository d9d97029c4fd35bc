package state

import (
	"io"
	"log"
	"math"
	"strings"
)

// Mode is the pointer state machine: Idle or Drawing.
type Mode int

const (
	Idle Mode = iota
	Drawing
)

func (m Mode) String() string {
	if m == Drawing {
		return "drawing"
	}
	return "idle"
}

// Options configures a Session. The zero value is usable.
type Options struct {
	// Logger receives core logs; nil discards them.
	Logger *log.Logger
	// Stickers seeds the palette; nil means DefaultStickers.
	Stickers []string
}

// Session is the whole sketchpad core for one user: history, tool, preview
// and sticker palette. It is not safe for concurrent use; shells must confine
// each Session to a single goroutine.
type Session struct {
	notify   Notifier
	history  *History
	previews *PreviewController
	palette  *Palette

	tool            Tool
	stickerRotation float64

	log *log.Logger
}

// NewSession starts with an empty history and the thin marker selected.
func NewSession(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	stickers := opts.Stickers
	if stickers == nil {
		stickers = DefaultStickers
	}
	s := &Session{
		palette: NewPalette(stickers...),
		tool:    &MarkerTool{Thickness: ThinMarker},
		log:     logger,
	}
	s.history = NewHistory(&s.notify, logger)
	s.previews = NewPreviewController(&s.notify)
	return s
}

// Subscribe registers a repaint listener.
func (s *Session) Subscribe(fn Listener) func() { return s.notify.Subscribe(fn) }

// SelectMarker makes the marker with the given thickness the only active
// tool. Non-positive or non-finite thickness is ignored.
func (s *Session) SelectMarker(thickness float64) {
	if thickness <= 0 || math.IsNaN(thickness) || math.IsInf(thickness, 0) {
		s.log.Printf("[SESSION] Ignoring marker with thickness %v", thickness)
		return
	}
	s.setTool(&MarkerTool{Thickness: thickness})
}

// SelectSticker makes glyph the active stamp. Blank glyphs are ignored.
func (s *Session) SelectSticker(glyph string) {
	if strings.TrimSpace(glyph) == "" {
		s.log.Printf("[SESSION] Ignoring blank sticker selection")
		return
	}
	s.setTool(&StickerTool{Glyph: glyph, Rotation: s.stickerRotation})
}

// SetStickerRotation sets the rotation, in degrees, used for stickers placed
// from now on.
func (s *Session) SetStickerRotation(deg float64) {
	s.stickerRotation = normalizeDegrees(deg)
	if st, ok := s.tool.(*StickerTool); ok {
		s.setTool(&StickerTool{Glyph: st.Glyph, Rotation: s.stickerRotation})
	}
}

func (s *Session) StickerRotation() float64 { return s.stickerRotation }

func (s *Session) setTool(t Tool) {
	s.finishStroke()
	s.tool = t
	s.previews.Retool(t)
	s.log.Printf("[SESSION] Tool selected: %s", t.Name())
}

// Tool returns a copy of the active tool.
func (s *Session) Tool() Tool {
	switch t := s.tool.(type) {
	case *MarkerTool:
		c := *t
		return &c
	case *StickerTool:
		c := *t
		return &c
	}
	return nil
}

// AddCustomSticker appends text to the palette. Blank text is rejected
// without any state change.
func (s *Session) AddCustomSticker(text string) bool {
	if err := s.palette.Add(text); err != nil {
		s.log.Printf("[SESSION] Custom sticker rejected: %v", err)
		return false
	}
	return true
}

// Stickers returns the palette in display order.
func (s *Session) Stickers() []string { return s.palette.Glyphs() }

// OnPointerDown starts a stroke in marker mode or stamps a sticker in
// sticker mode.
func (s *Session) OnPointerDown(x, y float64) {
	switch t := s.tool.(type) {
	case *StickerTool:
		if _, err := s.history.PlaceSticker(x, y, t.Glyph, t.Rotation); err != nil {
			s.log.Printf("[SESSION] Sticker not placed: %v", err)
		}
	case *MarkerTool:
		stroke := s.history.CommitStroke(t.Thickness)
		s.history.AppendPoint(stroke, x, y)
	}
}

// OnPointerMove refreshes the preview and extends the stroke being drawn.
func (s *Session) OnPointerMove(x, y float64) {
	s.previews.UpdateForPointer(s.tool, x, y)
	if open := s.history.InProgress(); open != nil {
		s.history.AppendPoint(open, x, y)
	}
}

// OnPointerUp ends the stroke being drawn, if any.
func (s *Session) OnPointerUp() { s.finishStroke() }

// OnPointerLeave is treated exactly like OnPointerUp so no stroke is left
// dangling when the pointer exits the surface.
func (s *Session) OnPointerLeave() { s.finishStroke() }

func (s *Session) finishStroke() {
	open := s.history.InProgress()
	if open == nil {
		return
	}
	s.history.FinalizeStroke(open)
	if s.previews.Current() != nil {
		s.notify.emit(PreviewMoved)
	}
}

func (s *Session) Undo() bool { return s.history.Undo() }
func (s *Session) Redo() bool { return s.history.Redo() }
func (s *Session) Clear()     { s.history.Clear() }

func (s *Session) CanUndo() bool { return s.history.CanUndo() }
func (s *Session) CanRedo() bool { return s.history.CanRedo() }

// Mode reports whether a stroke is being drawn.
func (s *Session) Mode() Mode {
	if s.history.InProgress() != nil {
		return Drawing
	}
	return Idle
}

// Drawables returns the committed drawables in paint order.
func (s *Session) Drawables() []Drawable { return s.history.Drawables() }

// Undone returns the redo buffer, most recently undone last.
func (s *Session) Undone() []Drawable { return s.history.Undone() }

// Preview returns the live preview, or nil.
func (s *Session) Preview() Preview { return s.previews.Current() }

// Redraw clears dst and paints the history in order, then the preview when
// no stroke is being drawn. It never mutates the session.
func (s *Session) Redraw(dst Surface) {
	dst.Clear()
	for _, d := range s.history.items {
		d.Render(dst)
	}
	if s.history.InProgress() == nil {
		if p := s.previews.Current(); p != nil {
			p.Render(dst)
		}
	}
}
