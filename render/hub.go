package render

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/maastricht-university/emotiai/emotion"
	"github.com/maastricht-university/emotiai/theme"
)

// Message is what the hub pushes to browsers.
type Message struct {
	Type     string            `json:"type"` // "result" or "note"
	Modality emotion.Modality  `json:"modality"`
	View     *View             `json:"view,omitempty"`
	Palette  map[string]string `json:"palette,omitempty"`
	Text     string            `json:"text,omitempty"`
	At       time.Time         `json:"at"`
}

const (
	sendBuffer = 16
	writeWait  = 5 * time.Second
)

// Hub is a Renderer that broadcasts every view over WebSocket. New clients
// receive the last result immediately. Slow clients lose messages rather
// than stall rendering.
type Hub struct {
	mu       sync.Mutex
	clients  map[*websocket.Conn]chan Message
	origins  map[string]bool
	last     *Message
	theme    *theme.Applier
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

func NewHub(a *theme.Applier, log logrus.FieldLogger) *Hub {
	if a == nil {
		a = theme.NewApplier(nil)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	h := &Hub{
		clients: make(map[*websocket.Conn]chan Message),
		origins: make(map[string]bool),
		theme:   a,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
	h.upgrader.CheckOrigin = h.checkOrigin
	return h
}

// AllowOrigins accepts browser connections from these origins
// ("http://host:port") in addition to the hub's own host.
func (h *Hub) AllowOrigins(origins ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, o := range origins {
		h.origins[normalizeOrigin(o)] = true
	}
}

// checkOrigin admits non-browser clients (no Origin header), pages served
// from the hub's own host, and allowed origins.
func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}
	h.mu.Lock()
	ok := h.origins[normalizeOrigin(origin)]
	h.mu.Unlock()
	if !ok {
		h.log.WithField("origin", origin).Warn("websocket origin rejected")
	}
	return ok
}

func normalizeOrigin(o string) string { return strings.ToLower(strings.TrimRight(o, "/")) }

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	send := make(chan Message, sendBuffer)

	h.mu.Lock()
	h.clients[conn] = send
	if h.last != nil {
		send <- *h.last
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.WithField("clients", n).Debug("websocket client connected")

	go h.writeLoop(conn, send)

	// Drain reads so close frames are processed.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.drop(conn)
}

func (h *Hub) writeLoop(conn *websocket.Conn, send <-chan Message) {
	for msg := range send {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			h.log.WithError(err).Debug("websocket write failed")
			conn.Close()
			return
		}
	}
	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
	conn.Close()
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	if send, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(send)
	}
	h.mu.Unlock()
}

func (h *Hub) Render(res emotion.Result, m emotion.Modality) {
	v, p := Present(h.theme, res, m)
	h.broadcast(Message{Type: "result", Modality: m, View: &v, Palette: p.Vars, At: time.Now()}, true)
}

func (h *Hub) Annotate(m emotion.Modality, text string) {
	h.broadcast(Message{Type: "note", Modality: m, Text: text, At: time.Now()}, false)
}

func (h *Hub) broadcast(msg Message, keep bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if keep {
		h.last = &msg
	}
	for _, send := range h.clients {
		select {
		case send <- msg:
		default:
		}
	}
}

func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn, send := range h.clients {
		delete(h.clients, conn)
		close(send)
	}
}
