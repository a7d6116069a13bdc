// Package eventbus implements the typed publish/subscribe bus shared by the
// upload manager core and its plugins. Delivery is synchronous with respect
// to the emitter and handlers are invoked in registration order.
package eventbus

import (
	"sync"

	"github.com/zeromicro/go-zero/core/logx"
)

// Handler receives the payload published for an event name.
type Handler func(payload any)

// subscription pairs a handler with a bus-wide monotonic id, so an
// unsubscribe closure can find and remove its own entry by identity
// rather than by a slice position that later removals can shift.
type subscription struct {
	id int
	fn Handler
}

// Bus is a minimal subject:action pub/sub. No wildcards, no priorities.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]subscription
	nextID   int
}

// New returns an empty Bus.
func New() *Bus {
	return &Bus{handlers: make(map[string][]subscription)}
}

// On subscribes handler to event. Subscription is additive; the returned
// Unsubscribe func removes this specific handler regardless of how many
// other handlers for the same event have been added or removed since.
func (b *Bus) On(event string, handler Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.handlers[event] = append(b.handlers[event], subscription{id: id, fn: handler})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		hs := b.handlers[event]
		for i, s := range hs {
			if s.id == id {
				b.handlers[event] = append(hs[:i], hs[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers payload synchronously to every handler subscribed to event,
// in registration order. A handler panic is recovered and logged; it never
// aborts delivery to the remaining handlers.
func (b *Bus) Emit(event string, payload any) {
	b.mu.RLock()
	subs := b.handlers[event]
	hs := make([]Handler, len(subs))
	for i, s := range subs {
		hs[i] = s.fn
	}
	b.mu.RUnlock()

	for _, h := range hs {
		b.invoke(event, h, payload)
	}
}

func (b *Bus) invoke(event string, h Handler, payload any) {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("eventbus: handler for %q panicked: %v", event, r)
		}
	}()
	h(payload)
}

// ScopedEmitter returns an emit function prefixed with "<pluginID>:" so that
// two plugins emitting the same local event name never collide on the bus.
func (b *Bus) ScopedEmitter(pluginID string) func(name string, payload any) {
	return func(name string, payload any) {
		b.Emit(pluginID+":"+name, payload)
	}
}
