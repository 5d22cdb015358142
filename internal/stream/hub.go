package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/kzhou/cryptobubbles/internal/market"
	"github.com/kzhou/cryptobubbles/internal/model"
)

const (
	// sendBuffer is the per-client queue. A client whose queue is full when
	// a broadcast arrives is disconnected.
	sendBuffer = 8

	writeTimeout = 10 * time.Second
)

// snapshotMessage is the wire format pushed to subscribers.
type snapshotMessage struct {
	Type      string       `json:"type"`
	FetchedAt time.Time    `json:"fetched_at"`
	Stale     bool         `json:"stale"`
	Coins     []model.Coin `json:"coins"`
}

type streamClient struct {
	id   uuid.UUID
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks websocket subscribers and fans market snapshots out to them.
// It implements market.SnapshotHandler.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[uuid.UUID]*streamClient
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser clients connect cross-origin during development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[uuid.UUID]*streamClient),
	}
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &streamClient{
		id:   uuid.New(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()

	h.logger.Info("stream client connected", "client_id", c.id, "clients", n)

	go h.writePump(c)
	go h.readPump(c)
}

// HandleSnapshot broadcasts a snapshot to all connected clients.
func (h *Hub) HandleSnapshot(s market.Snapshot) {
	payload, err := json.Marshal(snapshotMessage{
		Type:      "snapshot",
		FetchedAt: s.FetchedAt,
		Stale:     s.Stale,
		Coins:     s.Coins,
	})
	if err != nil {
		h.logger.Error("encoding snapshot broadcast failed", "error", err)
		return
	}

	h.mu.Lock()
	var slow []*streamClient
	for _, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	for _, c := range slow {
		delete(h.clients, c.id)
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("dropping slow stream client", "client_id", c.id)
		close(c.send)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. The hub accepts no connections afterwards.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := make([]*streamClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[uuid.UUID]*streamClient)
	h.mu.Unlock()

	for _, c := range clients {
		close(c.send)
	}
}

// writePump drains the client queue to the connection. A closed queue or a
// write error ends the connection.
func (h *Hub) writePump(c *streamClient) {
	defer c.conn.Close()

	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}

	// Queue closed: the hub dropped us or shut down.
	c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
		time.Now().Add(time.Second),
	)
}

// readPump discards inbound frames so control messages are processed, and
// detects the client going away.
func (h *Hub) readPump(c *streamClient) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if h.remove(c) {
				close(c.send)
			}
			return
		}
	}
}

// remove unregisters the client. It reports whether the client was still
// registered, so the send channel is closed exactly once.
func (h *Hub) remove(c *streamClient) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		h.logger.Info("stream client disconnected", "client_id", c.id, "clients", len(h.clients))
		return true
	}
	return false
}
