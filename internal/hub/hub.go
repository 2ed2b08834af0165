package hub

import (
	"encoding/json"
	"sync"
)

// Event types broadcast to lobby subscribers.
const (
	EventPlayerJoined = "player_joined"
	EventPlayerLeft   = "player_left"
	EventPhaseChanged = "phase_changed"
	EventChatMessage  = "chat_message"
)

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client represents a single subscriber connection (a user watching a lobby).
// The SSE handler reads marshalled events from this channel.
type Client chan []byte

// Hub fans lobby events out to every subscriber of that lobby.
type Hub struct {
	lobbies map[uint]map[Client]bool
	mu      sync.RWMutex
}

// GlobalHub is the singleton instance of our Hub.
var GlobalHub = NewHub()

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		lobbies: make(map[uint]map[Client]bool),
	}
}

// Subscribe adds a new client to a specific lobby.
func (h *Hub) Subscribe(lobbyID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.lobbies[lobbyID]; !ok {
		h.lobbies[lobbyID] = make(map[Client]bool)
	}
	h.lobbies[lobbyID][client] = true
}

// Unsubscribe removes a client from a lobby and closes its channel. Safe to
// call for a client that was already removed.
func (h *Hub) Unsubscribe(lobbyID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.lobbies[lobbyID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client) // Signal the SSE handler to stop.
	if len(clients) == 0 {
		delete(h.lobbies, lobbyID)
	}
}

// Broadcast sends an event to all clients subscribed to a lobby.
func (h *Hub) Broadcast(lobbyID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.lobbies[lobbyID]
	if !ok {
		return
	}

	messageBytes, err := json.Marshal(event)
	if err != nil {
		return
	}

	for client := range clients {
		// Non-blocking send so a slow client cannot stall the hub; its
		// subscription is cleaned up when the SSE handler exits.
		select {
		case client <- messageBytes:
		default:
		}
	}
}

// NumSubscribers reports how many clients are watching a lobby.
func (h *Hub) NumSubscribers(lobbyID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.lobbies[lobbyID])
}
