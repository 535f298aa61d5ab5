package server

import "sync"

// Hub fans redraw notifications out to connected event streams.
type Hub struct {
	mu   sync.Mutex
	subs map[string]chan struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan struct{})}
}

// Subscribe registers a client. The returned channel receives a value after
// each Broadcast; notifications coalesce while the client is busy. A second
// subscription for the same client replaces the first.
func (h *Hub) Subscribe(clientID string) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	h.mu.Lock()
	h.subs[clientID] = ch
	h.mu.Unlock()

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if h.subs[clientID] == ch {
			delete(h.subs, clientID)
		}
	}
}

// Broadcast notifies every subscriber without blocking.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
