package services

import (
	"sync"
	"time"
)

// FeedEvent is broadcast to WebSocket subscribers when a document is created.
type FeedEvent struct {
	Type      string      `json:"type"` // "entry_created", "vent_created"
	Document  interface{} `json:"document"`
	Timestamp time.Time   `json:"timestamp"`
}

// FeedHub fans out feed events to all connected subscribers. Slow subscribers
// drop events rather than block the publisher.
type FeedHub struct {
	mu   sync.RWMutex
	subs map[int]chan FeedEvent
	next int
}

// NewFeedHub creates an empty hub.
func NewFeedHub() *FeedHub {
	return &FeedHub{subs: make(map[int]chan FeedEvent)}
}

// Subscribe registers a subscriber and returns its event channel plus an
// unsubscribe func. The channel is closed on unsubscribe.
func (h *FeedHub) Subscribe() (<-chan FeedEvent, func()) {
	ch := make(chan FeedEvent, 16)

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = ch
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		if sub, ok := h.subs[id]; ok {
			delete(h.subs, id)
			close(sub)
		}
		h.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish delivers evt to every subscriber without blocking.
func (h *FeedHub) Publish(evt FeedEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Feed is the shared feed hub instance.
var Feed = NewFeedHub()
