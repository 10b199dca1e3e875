package bridge

import (
	"sync/atomic"
)

// Subscription is an active listener. It stays registered until Remove.
type Subscription struct {
	bridge  *Bridge
	id      uint64
	pattern string
	handler Handler
	removed atomic.Bool
}

// Listen registers handler for every inbound message whose type matches
// pattern ("set/*", "scene-item/delete"). Listeners run in registration
// order.
func (b *Bridge) Listen(pattern string, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextSubID++
	s := &Subscription{
		bridge:  b,
		id:      b.nextSubID,
		pattern: pattern,
		handler: handler,
	}
	b.listeners = append(b.listeners, s)
	return s
}

// Pattern returns the type pattern.
func (s *Subscription) Pattern() string {
	return s.pattern
}

// Removed reports whether Remove was called.
func (s *Subscription) Removed() bool {
	return s.removed.Load()
}

// Remove unregisters the listener. A removal during dispatch also skips the
// listener for the message being dispatched, if it has not run yet.
func (s *Subscription) Remove() {
	if s.removed.Swap(true) {
		return
	}
	b := s.bridge
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l == s {
			b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
			return
		}
	}
}
