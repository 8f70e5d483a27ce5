package api

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/heyama/objectboard/pkg/objectboard"
)

const (
	// writeWait bounds how long a single frame write may take.
	writeWait = 10 * time.Second

	// sendQueueSize is the per-client outbound buffer. A client that falls
	// this far behind starts missing events instead of stalling broadcasts.
	sendQueueSize = 16
)

// wsClient adapts one websocket connection to the objectboard.Subscriber
// interface. Events are queued on a buffered channel consumed by a single
// write pump, so Notify never blocks a broadcast.
type wsClient struct {
	conn *websocket.Conn
	send chan objectboard.Event

	mu     sync.Mutex
	closed bool
}

// Notify queues the event for delivery. Delivery is fire-and-forget: when
// the queue is full, or the client already disconnected, the event is
// dropped for this client.
func (c *wsClient) Notify(event objectboard.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- event:
	default:
	}
}

// closeSend stops the write pump. A broadcast holding an older snapshot of
// the subscriber set may still call Notify afterwards; the closed flag keeps
// that from panicking on the closed channel.
func (c *wsClient) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for event := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(event); err != nil {
			return
		}
	}
}

// WSHandler upgrades HTTP connections to websocket subscribers of a
// Notifier.
type WSHandler struct {
	notifier *objectboard.Notifier
	upgrader websocket.Upgrader
}

// NewWSHandler creates a websocket handler bound to the given notifier.
func NewWSHandler(notifier *objectboard.Notifier) *WSHandler {
	return &WSHandler{
		notifier: notifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The boundary carries no credentials; origin checks are left to
			// the deployment in front of it.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP registers the connection as a subscriber until it closes. No
// backlog is replayed on connect.
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	client := &wsClient{
		conn: conn,
		send: make(chan objectboard.Event, sendQueueSize),
	}

	h.notifier.Subscribe(client)
	slog.Info("subscriber connected", "remote", conn.RemoteAddr().String())

	go client.writePump()

	// Inbound messages are ignored; the read loop only detects close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.notifier.Unsubscribe(client)
	client.closeSend()
	slog.Info("subscriber disconnected", "remote", conn.RemoteAddr().String())
}
