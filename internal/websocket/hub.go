package websocket

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
)

// Message is a live-update notification sent to every session viewing the
// same inventory (owner and connected helpers).
type Message struct {
	Type   string         `json:"type"`
	Entity string         `json:"entity"`
	Action string         `json:"action"`
	ID     string         `json:"id,omitempty"`
	Month  string         `json:"month,omitempty"`
	Extra  map[string]any `json:"extra,omitempty"`
}

// NewMessage creates a Message with the Type field derived from entity and action.
func NewMessage(entity, action, id, month string) Message {
	return Message{
		Type:   fmt.Sprintf("%s_%s", entity, action),
		Entity: entity,
		Action: action,
		ID:     id,
		Month:  month,
	}
}

// Hub tracks active WebSocket clients grouped by inventory owner and
// broadcasts messages within each group.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[*Client]struct{}
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to its owner's group.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	group, ok := h.clients[c.ownerID]
	if !ok {
		group = make(map[*Client]struct{})
		h.clients[c.ownerID] = group
	}
	group[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if group, ok := h.clients[c.ownerID]; ok {
		if _, ok := group[c]; ok {
			delete(group, c)
			close(c.send)
		}
		if len(group) == 0 {
			delete(h.clients, c.ownerID)
		}
	}
	h.mu.Unlock()
}

// Broadcast sends a message to every client watching the owner's
// inventory.
func (h *Hub) Broadcast(ownerID int64, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients[ownerID] {
		select {
		case c.send <- data:
		default:
			// Client buffer full — drop message to avoid blocking
		}
	}
}

// ClientCount returns the number of clients watching the owner's
// inventory.
func (h *Hub) ClientCount(ownerID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[ownerID])
}
