// Package net serves a read-only live view of the drawing to other devices
// on the local network and advertises it over mDNS.
package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Frame notifies viewers that a new image is available.
type Frame struct {
	Type    string `json:"type"`
	Version uint64 `json:"version"`
}

// Hub holds the latest rendered PNG and the websocket viewers watching it.
// Publish is called from the UI goroutine, the rest from HTTP handlers.
type Hub struct {
	mu      sync.Mutex
	png     []byte
	version uint64
	viewers map[*websocket.Conn]bool
	log     logrus.FieldLogger
}

// NewHub returns an empty hub.
func NewHub(log logrus.FieldLogger) *Hub {
	return &Hub{
		viewers: make(map[*websocket.Conn]bool),
		log:     log.WithField("component", "preview"),
	}
}

// Publish stores png as the current frame and tells every viewer.
func (h *Hub) Publish(png []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.png = append(h.png[:0:0], png...)
	h.version++
	frame := Frame{Type: "changed", Version: h.version}
	for conn := range h.viewers {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(frame); err != nil {
			h.log.WithError(err).WithField("viewer", conn.RemoteAddr().String()).Debug("dropping viewer")
			conn.Close()
			delete(h.viewers, conn)
		}
	}
}

// Snapshot returns the current frame and its version.
func (h *Hub) Snapshot() ([]byte, uint64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.png, h.version
}

// Viewers returns the number of connected websocket viewers.
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

func (h *Hub) add(conn *websocket.Conn) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(Frame{Type: "changed", Version: h.version}); err != nil {
		return err
	}
	h.viewers[conn] = true
	h.log.WithField("viewer", conn.RemoteAddr().String()).Info("viewer connected")
	return nil
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.viewers[conn] {
		delete(h.viewers, conn)
		h.log.WithField("viewer", conn.RemoteAddr().String()).Info("viewer disconnected")
	}
}

func (h *Hub) disconnectAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.viewers {
		conn.Close()
		delete(h.viewers, conn)
	}
}

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Viewers are plain pages on the LAN, any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Handler routes the viewer page, the current image and the change feed.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.servePage)
	mux.HandleFunc("/image.png", h.serveImage)
	mux.HandleFunc("/ws", h.serveWS)
	return mux
}

func (h *Hub) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, viewerPage)
}

func (h *Hub) serveImage(w http.ResponseWriter, r *http.Request) {
	png, version := h.Snapshot()
	if png == nil {
		http.Error(w, "nothing drawn yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("ETag", fmt.Sprintf(`"%d"`, version))
	w.Write(png)
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Debug("websocket upgrade failed")
		return
	}
	if err := h.add(conn); err != nil {
		conn.Close()
		return
	}
	defer func() {
		h.remove(conn)
		conn.Close()
	}()

	// Viewers never send anything; reading only detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Server is a running preview endpoint.
type Server struct {
	http *http.Server
	ln   net.Listener
	hub  *Hub
	log  logrus.FieldLogger
}

// Listen binds the preview to addr and serves it in the background.
func Listen(addr string, hub *Hub) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("preview: listen %s: %w", addr, err)
	}
	s := &Server{
		http: &http.Server{Handler: hub.Handler(), ReadHeaderTimeout: 10 * time.Second},
		ln:   ln,
		hub:  hub,
		log:  hub.log,
	}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("preview server stopped")
		}
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("preview listening")
	return s, nil
}

// Port returns the TCP port the server is bound to.
func (s *Server) Port() int {
	return s.ln.Addr().(*net.TCPAddr).Port
}

// Close stops the server and disconnects every viewer.
func (s *Server) Close(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.hub.disconnectAll()
	return err
}

const viewerPage = `<!doctype html>
<html><head><title>MyDrawPad</title>
<style>body{margin:0;background:#333;display:flex;justify-content:center;align-items:center;height:100vh}img{max-width:100%;max-height:100%;box-shadow:0 0 8px #000}</style>
</head><body><img id="pad" src="/image.png" alt="drawing">
<script>
const img = document.getElementById('pad');
function watch() {
  const ws = new WebSocket('ws://' + location.host + '/ws');
  ws.onmessage = e => { img.src = '/image.png?v=' + JSON.parse(e.data).version; };
  ws.onclose = () => setTimeout(watch, 1000);
}
watch();
</script></body></html>
`
