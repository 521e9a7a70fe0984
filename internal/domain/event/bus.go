// Package event provides the in-process publish/subscribe bus used by the
// agent to notify UI surfaces of state changes without polling.
package event

import (
	"log/slog"
	"sync"
)

// Topic identifies a stream of events on the bus.
type Topic string

const (
	// TopicBalanceChanged fires after the cached balance is persisted with a new value.
	TopicBalanceChanged Topic = "balance-changed"
	// TopicTransactionsChanged fires after the cached transaction list is persisted.
	TopicTransactionsChanged Topic = "transactions-changed"
	// TopicSyncCompleted fires at the end of every sync cycle, successful or not.
	TopicSyncCompleted Topic = "sync-completed"
)

// Handler receives published payloads. Handlers run synchronously, in
// subscription order, on the publisher's goroutine.
type Handler func(payload any)

type subscription struct {
	id      uint64
	handler Handler
}

// Bus is an in-process publish/subscribe bus. Delivery is synchronous and
// unbuffered; a panicking handler is recovered and logged so it cannot break
// delivery to the remaining subscribers.
type Bus struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[Topic][]subscription
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{
		subs: make(map[Topic][]subscription),
	}
}

// Subscribe registers a handler for a topic and returns a function that
// removes the subscription. Unsubscribing twice is harmless.
func (b *Bus) Subscribe(topic Topic, handler Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.subs[topic]
		for i, s := range subs {
			if s.id == id {
				b.subs[topic] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Publish delivers the payload to every current subscriber of the topic.
// The subscriber list is snapshotted first, so handlers may subscribe or
// unsubscribe during delivery without affecting the running publish.
func (b *Bus) Publish(topic Topic, payload any) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs[topic]))
	copy(subs, b.subs[topic])
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(topic, s, payload)
	}
}

// deliver invokes a single handler, recovering from panics.
func (b *Bus) deliver(topic Topic, s subscription, payload any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked",
				"topic", string(topic),
				"panic", r,
			)
		}
	}()

	s.handler(payload)
}
