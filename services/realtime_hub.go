package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/djdreamfix/Code-Companion/models"

	"github.com/gorilla/websocket"
)

// writeWait bounds every websocket write; a peer that stops reading fails
// the write instead of blocking it forever.
const writeWait = 10 * time.Second

type WSClient struct {
	conn    *websocket.Conn
	mu      sync.Mutex // gorilla allows one concurrent writer per conn
	timeout time.Duration
}

func NewWSClient(conn *websocket.Conn) *WSClient {
	return &WSClient{conn: conn, timeout: writeWait}
}

func (c *WSClient) Write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(c.timeout))
	return c.conn.WriteMessage(messageType, data)
}

// RealtimeHub fans mark events out to every connected websocket client.
// Delivery is best effort: a client whose write fails or times out is
// dropped and resyncs from GET /api/marks on reconnect.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[*WSClient]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[*WSClient]struct{})}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	_ = c.conn.Close()
}

func (h *RealtimeHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *RealtimeHub) MarkCreated(m *models.Mark) {
	h.broadcast(map[string]any{
		"kind": "mark.created",
		"mark": m,
	})
}

func (h *RealtimeHub) MarkExpired(id string) {
	h.broadcast(map[string]any{
		"kind": "mark.expired",
		"id":   id,
	})
}

func (h *RealtimeHub) broadcast(payload any) {
	msg, _ := json.Marshal(payload)

	// snapshot the client set so no hub lock is held during the writes:
	// a stalled peer must not block Register/Unregister or other
	// broadcasts, and dropping it below needs the write lock
	h.mu.RLock()
	clients := make([]*WSClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		if err := c.Write(websocket.TextMessage, msg); err != nil {
			h.Unregister(c)
		}
	}
}
