package websocket

import (
	"encoding/json"
	"sync"
)

type BalanceUpdate struct {
	ProfileID      string `json:"profile_id"`
	Balance        int64  `json:"balance"`
	LifetimeEarned int64  `json:"lifetime_earned"`
	LifetimeSpent  int64  `json:"lifetime_spent"`
	TransactionID  string `json:"transaction_id"`
}

type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) Register(profileID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[profileID] == nil {
		h.clients[profileID] = make(map[*Client]struct{})
	}
	h.clients[profileID][client] = struct{}{}
}

func (h *Hub) Unregister(profileID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[profileID] == nil {
		return
	}
	delete(h.clients[profileID], client)
	if len(h.clients[profileID]) == 0 {
		delete(h.clients, profileID)
	}
}

func (h *Hub) BroadcastBalance(profileID string, update BalanceUpdate) {
	payload, _ := json.Marshal(update)
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients[profileID] {
		select {
		case client.send <- payload:
		default:
		}
	}
}
