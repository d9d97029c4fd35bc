package net

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"sketchpad/internal/raster"
)

//go:embed static/index.html
var indexHTML []byte

// Options configures the browser shell.
type Options struct {
	CanvasSize  int
	ExportScale int
	Fonts       *raster.Fonts
	// Logger receives per-session core logs; nil discards them.
	Logger *log.Logger
}

// PeerManager tracks every open browser connection.
type PeerManager struct {
	peers map[string]*Peer
	mu    sync.RWMutex
}

func NewPeerManager() *PeerManager {
	return &PeerManager{peers: make(map[string]*Peer)}
}

func (pm *PeerManager) Add(p *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.peers[p.ID] = p
	log.Printf("[SERVER] Peer connected: %s from %s", p.ID, p.conn.RemoteAddr())
}

func (pm *PeerManager) Remove(p *Peer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.peers, p.ID)
	log.Printf("[SERVER] Peer disconnected: %s", p.ID)
}

func (pm *PeerManager) Count() int {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	return len(pm.peers)
}

// CloseAll drops every connection; used on shutdown because hijacked
// websocket connections outlive http.Server.Shutdown.
func (pm *PeerManager) CloseAll() {
	pm.mu.RLock()
	defer pm.mu.RUnlock()
	for _, p := range pm.peers {
		p.Close()
	}
}

// Server serves the sketchpad page and one private session per websocket.
type Server struct {
	opts     Options
	peers    *PeerManager
	upgrader websocket.Upgrader
}

func NewServer(opts Options) *Server {
	if opts.CanvasSize <= 0 {
		opts.CanvasSize = 256
	}
	if opts.Fonts == nil {
		opts.Fonts = raster.DefaultFonts()
	}
	return &Server{
		opts:  opts,
		peers: NewPeerManager(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 64 << 10,
		},
	}
}

func (s *Server) Peers() *PeerManager { return s.peers }

// Handler returns the HTTP routes: the page at / and the socket at /ws.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ws", s.handleSocket)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(indexHTML); err != nil {
		log.Printf("[SERVER] Failed to write index page: %v", err)
	}
}

func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[SERVER] Upgrade failed: %v", err)
		return
	}
	p := newPeer(conn, s.opts)
	s.peers.Add(p)
	defer s.peers.Remove(p)
	p.Serve()
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Printf("[SERVER] Listening on %s", addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.peers.CloseAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Println("[SERVER] Stopped")
	return nil
}
