// Package event is the in-process dispatcher that decouples primary writes
// from their side effects. Services fire an event after the primary row is
// committed; listeners registered at boot enqueue outbox jobs.
package event

import (
	"sync"

	"github.com/workhive/workhive/pkg/logger"
)

// Events fired by the application.
const (
	ContactSubmitted = "contact.submitted"
	OrderPaid        = "order.paid"
	PrebookingPaid   = "prebooking.paid"
	OrderRefunded    = "order.refunded"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(event string, handler Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[event] = append(handlers[event], handler)
}

// Fire dispatches an event synchronously to all registered listeners.
func Fire(event string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[event]))
	copy(hs, handlers[event])
	mu.RUnlock()

	for _, h := range hs {
		dispatch(event, h, payload)
	}
}

// dispatch isolates listeners from each other and from the caller: a
// panicking listener never unwinds into the primary write path.
func dispatch(event string, h Handler, payload interface{}) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("event listener panicked", "event", event, "panic", rec)
		}
	}()
	h(payload)
}

// Flush removes all listeners. Used by tests.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
