package auth

import "sync"

// subscription is one registered listener. closed is guarded by hub.mu.
type subscription struct {
	fn     func(ChangeEvent)
	closed bool
}

// hub fans change events out to the listeners of a session id.
type hub struct {
	mu        sync.Mutex
	listeners map[string]map[*subscription]struct{}
	// delivery serializes callbacks per hub so unsubscribe can wait for in-flight calls.
	delivery sync.Mutex
}

func newHub() *hub {
	return &hub{listeners: make(map[string]map[*subscription]struct{})}
}

// subscribe registers fn for sessionID. The returned func is idempotent; once it
// returns, fn is not running and will not be called again. It must not be called
// from inside fn.
func (h *hub) subscribe(sessionID string, fn func(ChangeEvent)) func() {
	sub := &subscription{fn: fn}

	h.mu.Lock()
	set, ok := h.listeners[sessionID]
	if !ok {
		set = make(map[*subscription]struct{})
		h.listeners[sessionID] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			sub.closed = true
			if set, ok := h.listeners[sessionID]; ok {
				delete(set, sub)
				if len(set) == 0 {
					delete(h.listeners, sessionID)
				}
			}
			h.mu.Unlock()

			// Wait out a publish that already picked this listener up.
			h.delivery.Lock()
			h.delivery.Unlock()
		})
	}
}

// publish delivers ev to every listener of sessionID, outside the registry lock.
func (h *hub) publish(sessionID string, ev ChangeEvent) {
	h.delivery.Lock()
	defer h.delivery.Unlock()

	h.mu.Lock()
	subs := make([]*subscription, 0, len(h.listeners[sessionID]))
	for sub := range h.listeners[sessionID] {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.mu.Lock()
		closed := sub.closed
		h.mu.Unlock()
		if closed {
			continue
		}
		sub.fn(ev)
	}
}

// count reports the number of listeners on sessionID.
func (h *hub) count(sessionID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners[sessionID])
}
