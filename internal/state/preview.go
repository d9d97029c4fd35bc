package state

// PreviewController keeps at most one live preview that mirrors the active
// tool at the last known pointer position.
type PreviewController struct {
	current Preview
	notify  *Notifier
}

func NewPreviewController(n *Notifier) *PreviewController {
	return &PreviewController{notify: n}
}

// UpdateForPointer moves the preview to (x, y), building a fresh one when
// the tool variant differs from the live preview.
func (pc *PreviewController) UpdateForPointer(t Tool, x, y float64) {
	at := Point{X: x, Y: y}
	switch tool := t.(type) {
	case *MarkerTool:
		if p, ok := pc.current.(*MarkerPreview); ok {
			p.At, p.Thickness = at, tool.Thickness
		} else {
			pc.current = &MarkerPreview{At: at, Thickness: tool.Thickness}
		}
	case *StickerTool:
		if p, ok := pc.current.(*StickerPreview); ok {
			p.At, p.Glyph, p.Rotation = at, tool.Glyph, tool.Rotation
		} else {
			pc.current = &StickerPreview{At: at, Glyph: tool.Glyph, Rotation: tool.Rotation}
		}
	default:
		return
	}
	pc.notify.emit(PreviewMoved)
}

// Retool reacts to a tool change. A different variant drops the preview
// until the next pointer move; the same variant is refreshed in place.
func (pc *PreviewController) Retool(t Tool) {
	if pc.current == nil {
		return
	}
	switch p := pc.current.(type) {
	case *MarkerPreview:
		if m, ok := t.(*MarkerTool); ok {
			p.Thickness = m.Thickness
			pc.notify.emit(PreviewMoved)
			return
		}
	case *StickerPreview:
		if s, ok := t.(*StickerTool); ok {
			p.Glyph, p.Rotation = s.Glyph, s.Rotation
			pc.notify.emit(PreviewMoved)
			return
		}
	}
	pc.Invalidate()
}

// Invalidate drops the live preview.
func (pc *PreviewController) Invalidate() {
	if pc.current == nil {
		return
	}
	pc.current = nil
	pc.notify.emit(PreviewMoved)
}

// Current returns the live preview, or nil.
func (pc *PreviewController) Current() Preview { return pc.current }
