// Package realtime pushes order and notification events to connected
// merchant dashboards over websockets.
package realtime

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Event is one message pushed to a merchant channel.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Event types emitted by the order flow.
const (
	EventOrderUpdate  = "order_update"
	EventNotification = "notification"
)

// Hub tracks websocket subscribers per merchant channel and broadcasts
// events to them. Connections that fail a write are dropped.
type Hub struct {
	upgrader websocket.Upgrader
	logger   zerolog.Logger

	mu      sync.RWMutex
	clients map[string]map[*client]struct{} // merchant id -> connections
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serialises writes per connection
}

// NewHub creates a new hub.
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger.With().Str("component", "realtime-hub").Logger(),
		clients: make(map[string]map[*client]struct{}),
	}
}

// Subscribe upgrades the request to a websocket and registers it on the
// merchant's channel. Blocks until the connection closes.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, merchantID string) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	c := &client{conn: conn}
	h.add(merchantID, c)
	defer h.remove(merchantID, c)

	h.logger.Debug().Str("merchant_id", merchantID).Msg("dashboard subscribed")

	// Drain reads until the peer disconnects; subscribers never send data.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// Emit broadcasts an event to every subscriber on the merchant's channel.
func (h *Hub) Emit(merchantID string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", event.Type).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	subscribers := make([]*client, 0, len(h.clients[merchantID]))
	for c := range h.clients[merchantID] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	for _, c := range subscribers {
		c.mu.Lock()
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			h.remove(merchantID, c)
			c.conn.Close()
		}
	}
}

// Subscribers returns the number of connections on a merchant channel.
func (h *Hub) Subscribers(merchantID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[merchantID])
}

func (h *Hub) add(merchantID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[merchantID] == nil {
		h.clients[merchantID] = make(map[*client]struct{})
	}
	h.clients[merchantID][c] = struct{}{}
}

func (h *Hub) remove(merchantID string, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[merchantID], c)
	if len(h.clients[merchantID]) == 0 {
		delete(h.clients, merchantID)
	}
}
