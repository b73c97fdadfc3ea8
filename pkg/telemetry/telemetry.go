// Package telemetry fans text buffer events out to consumers off the UI
// goroutine and exports them as Prometheus metrics.
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/mono-ball/MonoBall-sub005/pkg/ui/textbuffer"
)

const subscriberBuffer = 64

// Event is a buffer event stamped with the time it was published.
type Event struct {
	textbuffer.Event
	Timestamp time.Time
}

// Hub fans out buffer events to any number of subscribers. It implements
// textbuffer.Observer so it can be attached to a buffer directly.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
	closed      bool
	dropped     atomic.Uint64
	now         func() time.Time
}

var _ textbuffer.Observer = (*Hub)(nil)

// NewHub constructs a hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]chan Event), now: time.Now}
}

// HandleBufferEvent publishes ev.
func (h *Hub) HandleBufferEvent(ev textbuffer.Event) {
	h.Publish(Event{Event: ev})
}

// Publish notifies all subscribers. It never blocks; events for a
// subscriber whose buffer is full are dropped and counted.
func (h *Hub) Publish(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = h.now()
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return
	}
	for _, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			h.dropped.Add(1)
		}
	}
}

// Dropped reports how many deliveries were dropped because a subscriber
// fell behind.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Subscribe returns a channel receiving future events and its subscriber ID.
// After Close the channel is returned already closed.
func (h *Hub) Subscribe() (<-chan Event, string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		empty := make(chan Event)
		close(empty)
		return empty, ""
	}
	id := ulid.Make().String()
	ch := make(chan Event, subscriberBuffer)
	h.subscribers[id] = ch
	return ch, id
}

// Unsubscribe closes and removes the subscriber. Unknown IDs are ignored.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
}

// Close unsubscribes everyone and stops further publication.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, ch := range h.subscribers {
		close(ch)
		delete(h.subscribers, id)
	}
}
