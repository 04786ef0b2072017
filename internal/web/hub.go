package web

import (
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/nibzard/focusflow/internal/notify"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = 25 * time.Second
	sendBuffer = 32
)

// Message is one frame on the notification stream. Frames from the toast
// carry its id: a client should ignore a notification whose id is below the
// last one it showed, and a dismiss whose id is not the one it is showing.
type Message struct {
	Type         string              `json:"type"` // "notification" or "dismiss"
	ID           uint64              `json:"id,omitempty"`
	Notification notify.Notification `json:"notification"`
}

// Hub fans notifications out to websocket clients. It is a notify.Sink.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
	logger  *log.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{clients: make(map[*client]struct{}), logger: logger}
}

// Notify broadcasts a new notification without a toast id.
func (h *Hub) Notify(n notify.Notification) {
	h.broadcast(Message{Type: "notification", Notification: n})
}

// Show broadcasts a notification the toast made visible under id.
func (h *Hub) Show(n notify.Notification, id uint64) {
	h.broadcast(Message{Type: "notification", ID: id, Notification: n})
}

// Dismiss tells clients the toast with id is no longer visible.
func (h *Hub) Dismiss(n notify.Notification, id uint64) {
	h.broadcast(Message{Type: "dismiss", ID: id, Notification: n})
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func encodeMessage(m Message) ([]byte, error) {
	return json.Marshal(m)
}

func (h *Hub) broadcast(m Message) {
	data, err := encodeMessage(m)
	if err != nil {
		h.logger.Error("Encode stream message", "err", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Slow consumer; drop it rather than block the store.
			h.logger.Warn("Dropping slow notification client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// deliver queues m for one registered client. It reports false if the client
// is gone or its buffer is full.
func (h *Hub) deliver(c *client, m Message) bool {
	data, err := encodeMessage(m)
	if err != nil {
		h.logger.Error("Encode stream message", "err", err)
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Close disconnects every client and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// upgrader returns a websocket upgrader for allowedOrigin. Empty means
// same-origin only, "*" allows any origin.
func upgrader(allowedOrigin string) websocket.Upgrader {
	u := websocket.Upgrader{ReadBufferSize: 1024, WriteBufferSize: 1024}
	switch allowedOrigin {
	case "":
	case "*":
		u.CheckOrigin = func(*http.Request) bool { return true }
	default:
		u.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		}
	}
	return u
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// run starts the client's pumps.
func (c *client) run() {
	go c.writePump()
	go c.readPump()
}

// readPump discards client frames and keeps the read deadline alive.
func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
