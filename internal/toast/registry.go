package toast

import (
	"sync"
	"time"
)

// Registry hands out one Bus per browser session. Buses are created lazily on
// first use and dropped when the owning session goes away.
type Registry struct {
	mu    sync.Mutex
	ttl   time.Duration
	buses map[string]*Bus
}

// NewRegistry constructs a Registry whose buses use the provided toast TTL.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		ttl:   ttl,
		buses: make(map[string]*Bus),
	}
}

// For returns the bus for the given session id, creating it when needed.
func (r *Registry) For(sessionID string) *Bus {
	r.mu.Lock()
	defer r.mu.Unlock()

	bus, ok := r.buses[sessionID]
	if !ok {
		bus = NewBus(r.ttl)
		r.buses[sessionID] = bus
	}
	return bus
}

// Forget drops the bus for a session, typically when the session expires.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	delete(r.buses, sessionID)
	r.mu.Unlock()
}
