// Package hub fans events out to subscribers without ever blocking the
// publisher.
package hub

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
)

// Subscriber receives events of type E
type Subscriber[E any] struct {
	ID   ulid.ULID
	Ch   chan E
	Done chan struct{}
}

// subInfo holds subscription metadata
type subInfo[E any] struct {
	subscribedAt time.Time
	sub          *Subscriber[E]
}

// Hub fans events out to subscribers. Delivery never blocks: a subscriber
// whose outbox is full loses the event, which is counted.
type Hub[E any] struct {
	mu         sync.RWMutex
	subs       map[ulid.ULID]subInfo[E]
	bufferSize int
	closed     bool
	dropped    uint64
	log        *slog.Logger
}

// New creates a hub whose subscribers buffer bufferSize events.
func New[E any](bufferSize int, log *slog.Logger) *Hub[E] {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &Hub[E]{
		subs:       make(map[ulid.ULID]subInfo[E]),
		bufferSize: bufferSize,
		log:        log,
	}
}

// Subscribe adds a new subscriber. The returned cancel func is safe to call
// more than once. Subscribing to a closed hub yields an already-closed
// subscriber.
func (h *Hub[E]) Subscribe() (*Subscriber[E], func()) {
	sub := &Subscriber[E]{
		ID:   ulid.Make(),
		Ch:   make(chan E, h.bufferSize),
		Done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(sub.Ch)
		close(sub.Done)
		return sub, func() {}
	}
	h.subs[sub.ID] = subInfo[E]{subscribedAt: time.Now(), sub: sub}
	h.mu.Unlock()

	if h.log != nil && h.log.Enabled(context.Background(), slog.LevelDebug) {
		h.log.Debug("subscribed", "sub_id", sub.ID.String())
	}

	return sub, func() { h.Unsubscribe(sub.ID) }
}

// Unsubscribe removes a subscriber and closes its channels
func (h *Hub[E]) Unsubscribe(id ulid.ULID) {
	h.mu.Lock()
	info, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	close(info.sub.Ch)
	close(info.sub.Done)

	if h.log != nil && h.log.Enabled(context.Background(), slog.LevelDebug) {
		h.log.Debug("unsubscribed", "sub_id", id.String(), "lifetime", time.Since(info.subscribedAt))
	}
}

// Broadcast delivers ev to every subscriber
func (h *Hub[E]) Broadcast(ev E) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, info := range h.subs {
		sendOrDrop(info.sub.Ch, ev, func() {
			atomic.AddUint64(&h.dropped, 1)
			if h.log != nil {
				h.log.Warn("outbox full, dropping event", "sub_id", id.String(), "event", ev)
			}
		})
	}
}

// Close unsubscribes everyone; later Subscribe calls get closed subscribers.
func (h *Hub[E]) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[ulid.ULID]subInfo[E])
	h.mu.Unlock()

	for _, info := range subs {
		close(info.sub.Ch)
		close(info.sub.Done)
	}
}

// sendOrDrop is the only place that can decide to drop an event.
func sendOrDrop[E any](ch chan E, ev E, onDrop func()) {
	select {
	case ch <- ev:
	default:
		onDrop()
	}
}

// Stats returns current counters for observability / tests.
func (h *Hub[E]) Stats() (subscribers int, dropped uint64) {
	h.mu.RLock()
	subscribers = len(h.subs)
	h.mu.RUnlock()
	return subscribers, atomic.LoadUint64(&h.dropped)
}
