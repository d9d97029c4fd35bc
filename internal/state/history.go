package state

import (
	"errors"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
)

// ErrEmptyGlyph is returned when a sticker would carry no visible text.
var ErrEmptyGlyph = errors.New("sticker glyph is empty")

// History is the ordered list of committed drawables plus the redo buffer.
// Later entries paint over earlier ones.
type History struct {
	items  []Drawable
	undone []Drawable
	open   *Stroke

	notify *Notifier
	log    *log.Logger
}

// NewHistory creates an empty history that reports mutations to n.
// A nil logger discards log output.
func NewHistory(n *Notifier, logger *log.Logger) *History {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &History{notify: n, log: logger}
}

// CommitStroke appends a new empty stroke and returns it as the handle for
// AppendPoint. Any redo history is dropped.
func (h *History) CommitStroke(thickness float64) *Stroke {
	h.closeOpen()
	s := newStroke(thickness)
	h.items = append(h.items, s)
	h.undone = nil
	h.open = s
	h.log.Printf("[HISTORY] Stroke started: %s (thickness %.1f)", s.id, thickness)
	h.notify.emit(ContentChanged)
	return s
}

// AppendPoint extends an open stroke. Appending to a finalized stroke is a
// no-op. The redo buffer is left alone.
func (h *History) AppendPoint(s *Stroke, x, y float64) {
	if s == nil || s.closed {
		return
	}
	s.points = append(s.points, Point{X: x, Y: y})
	h.notify.emit(ContentChanged)
}

// FinalizeStroke closes s to further appends.
func (h *History) FinalizeStroke(s *Stroke) {
	if s == nil || s.closed {
		return
	}
	s.closed = true
	if h.open == s {
		h.open = nil
	}
	h.log.Printf("[HISTORY] Stroke finalized: %s (%d points)", s.id, len(s.points))
}

// PlaceSticker appends a finished sticker and drops any redo history.
func (h *History) PlaceSticker(x, y float64, glyph string, rotation float64) (*Sticker, error) {
	if strings.TrimSpace(glyph) == "" {
		return nil, ErrEmptyGlyph
	}
	h.closeOpen()
	s := &Sticker{
		id:       uuid.NewString(),
		at:       Point{X: x, Y: y},
		glyph:    glyph,
		rotation: rotation,
	}
	h.items = append(h.items, s)
	h.undone = nil
	h.log.Printf("[HISTORY] Sticker placed: %s %q at (%.1f, %.1f)", s.id, glyph, x, y)
	h.notify.emit(ContentChanged)
	return s, nil
}

// Undo moves the most recent drawable onto the redo buffer. It reports
// whether anything changed.
func (h *History) Undo() bool {
	if len(h.items) == 0 {
		return false
	}
	h.closeOpen()
	last := h.items[len(h.items)-1]
	h.items = h.items[:len(h.items)-1]
	h.undone = append(h.undone, last)
	h.log.Printf("[HISTORY] Undo: %s", last.ID())
	h.notify.emit(ContentChanged)
	return true
}

// Redo moves the most recently undone drawable back onto the history.
func (h *History) Redo() bool {
	if len(h.undone) == 0 {
		return false
	}
	last := h.undone[len(h.undone)-1]
	h.undone = h.undone[:len(h.undone)-1]
	h.items = append(h.items, last)
	h.log.Printf("[HISTORY] Redo: %s", last.ID())
	h.notify.emit(ContentChanged)
	return true
}

// Clear empties both the history and the redo buffer.
func (h *History) Clear() {
	h.closeOpen()
	h.log.Printf("[HISTORY] Clear: dropped %d drawables, %d undone", len(h.items), len(h.undone))
	h.items = nil
	h.undone = nil
	h.notify.emit(ContentChanged)
}

// Drawables returns the committed drawables in paint order.
func (h *History) Drawables() []Drawable {
	out := make([]Drawable, len(h.items))
	copy(out, h.items)
	return out
}

// Undone returns the redo buffer, most recently undone last.
func (h *History) Undone() []Drawable {
	out := make([]Drawable, len(h.undone))
	copy(out, h.undone)
	return out
}

// InProgress returns the stroke currently being drawn, or nil.
func (h *History) InProgress() *Stroke { return h.open }

func (h *History) CanUndo() bool { return len(h.items) > 0 }
func (h *History) CanRedo() bool { return len(h.undone) > 0 }

func (h *History) closeOpen() {
	if h.open != nil {
		h.FinalizeStroke(h.open)
	}
}
