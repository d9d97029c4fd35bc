package net

import (
	"bytes"
	"encoding/json"
	"image/png"
	"log"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"sketchpad/internal/export"
	"sketchpad/internal/raster"
	"sketchpad/internal/state"
)

// Binary frames start with one of these tags.
const (
	TagFrame  byte = 'F'
	TagExport byte = 'E'
	TagPDF    byte = 'P'
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 64 << 10
)

// ClientMessage is one browser event forwarded to the peer's session.
type ClientMessage struct {
	Type      string  `json:"type"`
	Action    string  `json:"action,omitempty"`
	X         float64 `json:"x,omitempty"`
	Y         float64 `json:"y,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
	Glyph     string  `json:"glyph,omitempty"`
	Rotation  float64 `json:"rotation,omitempty"`
	Text      string  `json:"text,omitempty"`
}

// StatusMessage tells the browser what to show around the canvas.
type StatusMessage struct {
	Type     string   `json:"type"`
	Canvas   int      `json:"canvas"`
	Tool     string   `json:"tool"`
	Rotation float64  `json:"rotation"`
	Stickers []string `json:"stickers"`
	CanUndo  bool     `json:"can_undo"`
	CanRedo  bool     `json:"can_redo"`
}

type outbound struct {
	kind int
	data []byte
}

// Peer is one browser connection with its own private Session. Only the
// goroutine running Serve touches the session; a second goroutine writes to
// the socket.
type Peer struct {
	ID string

	conn    *websocket.Conn
	session *state.Session
	canvas  *raster.Canvas
	opts    Options

	frames     chan []byte
	control    chan outbound
	done       chan struct{}
	writerDone chan struct{}
	closeOnce  sync.Once

	dirty      bool
	lastStatus StatusMessage
}

func newPeer(conn *websocket.Conn, opts Options) *Peer {
	p := &Peer{
		ID:         uuid.NewString(),
		conn:       conn,
		opts:       opts,
		session:    state.NewSession(state.Options{Logger: opts.Logger}),
		canvas:     raster.New(opts.CanvasSize, opts.CanvasSize, 1, opts.Fonts),
		frames:     make(chan []byte, 1),
		control:    make(chan outbound, 8),
		done:       make(chan struct{}),
		writerDone: make(chan struct{}),
	}
	p.session.Subscribe(func(state.Event) { p.dirty = true })
	return p
}

// Serve runs the read loop until the connection fails or is closed.
func (p *Peer) Serve() {
	go p.writeLoop()
	defer close(p.done)
	defer p.Close()

	p.conn.SetReadLimit(maxMessageSize)
	p.dirty = true
	p.flush()

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[SERVER] Peer %s read error: %v", p.ID, err)
			}
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("[SERVER] Peer %s sent malformed message: %v", p.ID, err)
			continue
		}
		p.handle(msg)
		p.flush()
	}
}

// Close tears down the connection; the read loop then exits.
func (p *Peer) Close() {
	p.closeOnce.Do(func() {
		p.conn.Close()
	})
}

func (p *Peer) handle(msg ClientMessage) {
	s := p.session
	switch msg.Type {
	case "pointer":
		switch msg.Action {
		case "down":
			s.OnPointerDown(msg.X, msg.Y)
		case "move":
			s.OnPointerMove(msg.X, msg.Y)
		case "up":
			s.OnPointerUp()
		case "leave":
			s.OnPointerLeave()
		default:
			log.Printf("[SERVER] Peer %s unknown pointer action %q", p.ID, msg.Action)
		}
	case "marker":
		s.SelectMarker(msg.Thickness)
	case "sticker":
		s.SelectSticker(msg.Glyph)
	case "rotate":
		s.SetStickerRotation(msg.Rotation)
	case "custom_sticker":
		s.AddCustomSticker(msg.Text)
	case "undo":
		s.Undo()
	case "redo":
		s.Redo()
	case "clear":
		s.Clear()
	case "export":
		p.sendExport(TagExport, export.EncodePNG)
	case "export_pdf":
		p.sendExport(TagPDF, func(src export.Source, opts export.Options) ([]byte, error) {
			var buf bytes.Buffer
			err := export.WritePDF(&buf, src, opts)
			return buf.Bytes(), err
		})
	default:
		log.Printf("[SERVER] Peer %s unknown message type %q", p.ID, msg.Type)
	}
}

func (p *Peer) exportOptions() export.Options {
	return export.Options{
		Width:  p.opts.CanvasSize,
		Height: p.opts.CanvasSize,
		Scale:  p.opts.ExportScale,
		Fonts:  p.opts.Fonts,
	}
}

func (p *Peer) sendExport(tag byte, encode func(export.Source, export.Options) ([]byte, error)) {
	data, err := encode(p.session, p.exportOptions())
	if err != nil {
		log.Printf("[SERVER] Peer %s export failed: %v", p.ID, err)
		return
	}
	log.Printf("[EXPORT] Peer %s exported %d bytes (%c)", p.ID, len(data), tag)
	p.send(outbound{kind: websocket.BinaryMessage, data: tagged(tag, data)})
}

// flush pushes a new frame if the session changed and a status message if
// anything around the canvas changed.
func (p *Peer) flush() {
	if status := p.status(); !reflect.DeepEqual(status, p.lastStatus) {
		data, err := json.Marshal(status)
		if err == nil {
			p.lastStatus = status
			p.send(outbound{kind: websocket.TextMessage, data: data})
		}
	}
	if !p.dirty {
		return
	}
	p.dirty = false
	p.session.Redraw(p.canvas)
	var buf bytes.Buffer
	buf.WriteByte(TagFrame)
	if err := png.Encode(&buf, p.canvas.Image()); err != nil {
		log.Printf("[SERVER] Peer %s frame encode failed: %v", p.ID, err)
		return
	}
	p.offerFrame(buf.Bytes())
}

func (p *Peer) status() StatusMessage {
	return StatusMessage{
		Type:     "status",
		Canvas:   p.opts.CanvasSize,
		Tool:     p.session.Tool().Name(),
		Rotation: p.session.StickerRotation(),
		Stickers: p.session.Stickers(),
		CanUndo:  p.session.CanUndo(),
		CanRedo:  p.session.CanRedo(),
	}
}

// offerFrame replaces any frame the writer has not picked up yet, so a
// burst of moves collapses into the latest picture.
func (p *Peer) offerFrame(frame []byte) {
	for {
		select {
		case p.frames <- frame:
			return
		case <-p.writerDone:
			return
		default:
			select {
			case <-p.frames:
			default:
			}
		}
	}
}

func (p *Peer) send(m outbound) {
	select {
	case p.control <- m:
	case <-p.writerDone:
	}
}

func (p *Peer) writeLoop() {
	defer close(p.writerDone)
	defer p.Close()
	for {
		var m outbound
		select {
		case <-p.done:
			return
		case m = <-p.control:
		case f := <-p.frames:
			m = outbound{kind: websocket.BinaryMessage, data: f}
		}
		p.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := p.conn.WriteMessage(m.kind, m.data); err != nil {
			return
		}
	}
}

func tagged(tag byte, data []byte) []byte {
	out := make([]byte, 0, len(data)+1)
	out = append(out, tag)
	return append(out, data...)
}
