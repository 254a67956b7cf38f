package ui

import (
	"context"
	"log"
	"sync"
	"time"
)

// DefaultStateTTL is how long an idle visitor's state is kept.
const DefaultStateTTL = 24 * time.Hour

// DefaultMaxStates caps how many visitors are tracked at once.
const DefaultMaxStates = 10000

// Registry holds per-visitor State keyed by visitor ID. Idle states are
// dropped by Sweep; when the registry is full the least recently seen
// state makes room for a new one.
type Registry struct {
	mu     sync.Mutex
	states map[string]*State
	ttl    time.Duration
	max    int
	now    func() time.Time
}

// NewRegistry creates a registry expiring states idle longer than ttl.
func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = DefaultStateTTL
	}
	return &Registry{states: make(map[string]*State), ttl: ttl, max: DefaultMaxStates, now: time.Now}
}

// Get returns the visitor's state, creating it on first use.
func (r *Registry) Get(visitorID string) *State {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	st, ok := r.states[visitorID]
	if !ok {
		if len(r.states) >= r.max {
			r.evictOldestLocked()
		}
		st = NewState()
		r.states[visitorID] = st
	}
	st.touch(now)
	return st
}

// Remove forgets the visitor's state.
func (r *Registry) Remove(visitorID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, visitorID)
}

// Sweep drops states idle longer than the TTL and reports how many went.
func (r *Registry) Sweep() int {
	now := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, st := range r.states {
		if now.Sub(st.idleSince()) > r.ttl {
			delete(r.states, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("[INFO] Dropped idle visitor states count=%d", n)
			}
		}
	}
}

// evictOldestLocked removes the least recently seen state. Only reached
// when the registry is full.
func (r *Registry) evictOldestLocked() {
	var (
		oldestID string
		oldest   time.Time
	)
	for id, st := range r.states {
		if seen := st.idleSince(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(r.states, oldestID)
}

// Len returns the number of tracked visitors.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.states)
}
