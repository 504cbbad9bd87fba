package realtime

import (
	"sync"

	"github.com/WeDoCheapies/website/internal/metrics"
)

const defaultSubscriptionBuffer = 64

// Subscription receives changes of subscribed tables in the order they were published.
// C is closed when subscription is closed or when subscriber falls behind the feed,
// in the latter case subscriber must reload its state and subscribe again.
type Subscription struct {
	C      <-chan Envelope
	ch     chan Envelope
	tables map[string]struct{}
	hub    *Hub
}

// Close unsubscribes, it is safe to call it multiple times
func (s *Subscription) Close() {
	s.hub.remove(s)
}

func (s *Subscription) wants(table string) bool {
	if len(s.tables) == 0 {
		return true
	}
	_, ok := s.tables[table]
	return ok
}

// Hub fans out row changes to subscribers
type Hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriptionBuffer
	}
	return &Hub{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Subscribe subscribes to changes of provided tables, no tables means all of them
func (h *Hub) Subscribe(tables ...string) *Subscription {
	ch := make(chan Envelope, h.buffer)
	sub := &Subscription{C: ch, ch: ch, tables: make(map[string]struct{}, len(tables)), hub: h}
	for _, t := range tables {
		sub.tables[t] = struct{}{}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return sub
	}

	h.subs[sub] = struct{}{}
	metrics.RealtimeSubscribers.Inc()
	return sub
}

// Publish never blocks, subscriber with full buffer is dropped
func (h *Hub) Publish(env Envelope) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs {
		if !sub.wants(env.Table) {
			continue
		}

		select {
		case sub.ch <- env:
		default:
			h.drop(sub)
			metrics.RealtimeDropped.Inc()
		}
	}
}

// Close closes all subscriptions, further subscriptions are closed right away
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for sub := range h.subs {
		h.drop(sub)
	}
}

// Closed reports whether hub was closed
func (h *Hub) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.drop(sub)
}

// drop must be called with mu held
func (h *Hub) drop(sub *Subscription) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.ch)
	metrics.RealtimeSubscribers.Dec()
}
