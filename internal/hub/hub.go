package hub

import (
	"context"
	"sync"

	"filmsocial/backend/internal/metrics"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const (
	// EventRelationshipChanged is published after a committed friendship transition.
	EventRelationshipChanged = "relationship.changed"
	// EventFilmChanged is published after a film or its rating changed.
	EventFilmChanged = "film.changed"
)

// Event represents a domain event delivered to listeners and stream clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// RelationshipChanged is the payload of EventRelationshipChanged.
// Status is empty when the edge was deleted.
type RelationshipChanged struct {
	Operation   string `json:"operation"`
	UserID      uint   `json:"user_id"`
	FriendID    uint   `json:"friend_id"`
	InitiatorID uint   `json:"initiator_id,omitempty"`
	Status      string `json:"status,omitempty"`
}

// FilmChanged is the payload of EventFilmChanged.
type FilmChanged struct {
	FilmID uint `json:"film_id"`
}

// Listener is called synchronously for every published event.
type Listener func(ctx context.Context, event Event)

// Client represents a single stream connection of a user.
// It's essentially a channel that the SSE handler will listen to.
type Client chan []byte

// Hub fans domain events out to in-process listeners and to the stream
// clients of the affected users.
type Hub struct {
	clients   map[uint]map[Client]bool
	listeners []Listener
	mu        sync.RWMutex
	log       *zap.Logger
}

// New creates a new Hub.
func New(log *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[Client]bool),
		log:     log,
	}
}

// AddListener registers l for every subsequent event.
func (h *Hub) AddListener(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// Subscribe adds a new stream client for a user.
func (h *Hub) Subscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[userID]; !ok {
		h.clients[userID] = make(map[Client]bool)
	}
	h.clients[userID][client] = true
	metrics.StreamClients.Inc()
}

// Unsubscribe removes a client and closes its channel.
func (h *Hub) Unsubscribe(userID uint, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client) // Close the channel to signal the SSE handler to stop.
			metrics.StreamClients.Dec()
			if len(clients) == 0 {
				delete(h.clients, userID)
			}
		}
	}
}

// Publish hands event to every listener and then to the stream clients of recipients.
// It must be called after the change is committed.
func (h *Hub) Publish(ctx context.Context, event Event, recipients ...uint) {
	h.mu.RLock()
	listeners := make([]Listener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.RUnlock()

	metrics.EventsPublishedTotal.WithLabelValues(event.Type).Inc()
	for _, l := range listeners {
		l(ctx, event)
	}

	seen := make(map[uint]bool, len(recipients))
	for _, userID := range recipients {
		if seen[userID] {
			continue
		}
		seen[userID] = true
		h.Broadcast(userID, event)
	}
}

// Broadcast sends an event to all stream clients of a user.
func (h *Hub) Broadcast(userID uint, event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[userID]
	if !ok {
		return
	}
	messageBytes, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to encode event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	for client := range clients {
		// Non-blocking: a slow client drops events instead of stalling the publisher.
		select {
		case client <- messageBytes:
		default:
			h.log.Warn("stream client buffer full, event dropped",
				zap.Uint("user_id", userID), zap.String("type", event.Type))
		}
	}
}

// ClientCount returns the number of stream clients of a user.
func (h *Hub) ClientCount(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
