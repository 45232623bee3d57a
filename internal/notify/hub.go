// Package notify broadcasts catalog lifecycle events in-process.
//
// Delivery is best-effort with no buffering beyond a small per-subscriber
// channel: subscribers that attach late or fail to drain simply miss events.
package notify

import (
	"sync"

	"github.com/popcatalog/popcatalog-go/internal/model"
)

const subscriberBuffer = 16

// Hub fans each published notification out to all current subscribers.
type Hub struct {
	mu     sync.Mutex
	subs   map[int]chan model.Notification
	nextID int
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]chan model.Notification)}
}

// Subscribe registers for future notifications. The returned cancel func
// detaches the subscriber and closes its channel.
func (h *Hub) Subscribe() (<-chan model.Notification, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan model.Notification, subscriberBuffer)
	if h.closed {
		close(ch)
		return ch, func() {}
	}

	id := h.nextID
	h.nextID++
	h.subs[id] = ch

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers a notification to every current subscriber. A subscriber
// whose buffer is full loses the event rather than blocking the publisher.
func (h *Hub) Publish(n model.Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Close detaches all subscribers and closes their channels.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
}
