package events

import (
	"sync"
	"time"
)

// Bus fans events out to registered observers and keeps the full event
// history for later inspection. A nil *Bus is valid and discards every
// publish, so producers don't have to guard their emit sites.
type Bus struct {
	mu        sync.Mutex
	observers []func(Event)
	history   []Event
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{history: make([]Event, 0, 64)}
}

// Notify registers an observer invoked synchronously for every published
// event, in publish order.
func (b *Bus) Notify(fn func(Event)) {
	if b == nil || fn == nil {
		return
	}
	b.mu.Lock()
	b.observers = append(b.observers, fn)
	b.mu.Unlock()
}

// Publish records the event and delivers it to all observers. The timestamp
// is stamped if unset.
func (b *Bus) Publish(e Event) {
	if b == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}

	b.mu.Lock()
	b.history = append(b.history, e)
	obs := make([]func(Event), len(b.observers))
	copy(obs, b.observers)
	b.mu.Unlock()

	for _, fn := range obs {
		fn(e)
	}
}

// History returns a copy of all events published so far.
func (b *Bus) History() []Event {
	if b == nil {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Event, len(b.history))
	copy(out, b.history)
	return out
}
