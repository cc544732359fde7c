// Package events fans mutation notifications out to live subscribers.
package events

import (
	"sync"
	"time"
)

// Event describes one committed mutation.
type Event struct {
	Entity   string    `json:"entity"`
	Action   string    `json:"action"`
	EntityID int64     `json:"entity_id"`
	Actor    string    `json:"actor"`
	Time     time.Time `json:"time"`
}

const subscriberBuffer = 64

// Hub is an in-process publish/subscribe fan-out. Publishing never
// blocks: a subscriber that stops draining loses events rather than
// stalling the request path.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: map[chan Event]struct{}{}}
}

// Subscribe registers a listener. The returned cancel function must be
// called to release the subscription.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subscribers[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		if _, ok := h.subscribers[ch]; ok {
			delete(h.subscribers, ch)
			close(ch)
		}
		h.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers an event to every subscriber with room in its
// buffer.
func (h *Hub) Publish(event Event) {
	if event.Time.IsZero() {
		event.Time = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount returns the number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}
