package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/flourineV/cinemas-frontend-sub000/internal/model"
)

// Deps bundles the collaborators every Session is wired with.
type Deps struct {
	Locks   LockService
	Booking BookingService
	Drafts  DraftStore
	Audit   AuditPublisher
	Feed    LockFeed
}

// Registry owns the live coordinator sessions, one per visitor
// identity.  Sessions are created lazily on first use and removed on
// teardown or after sitting idle; the sweeper's teardown doubles as
// the navigation-away backstop for visitors whose browser never sent
// the beacon.
type Registry struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Session)}
}

// Get returns the visitor's session, creating it when absent.
func (r *Registry) Get(id model.Identity) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := id.Key()
	s := r.sessions[key]
	if s == nil {
		s = NewSession(id, r.deps.Locks, r.deps.Booking, r.deps.Drafts, r.deps.Audit, r.deps.Feed)
		r.sessions[key] = s
	}
	return s
}

// Teardown ends the visitor's session if one exists, releasing any
// held seats best-effort, and removes it from the registry.
func (r *Registry) Teardown(id model.Identity) {
	r.mu.Lock()
	s := r.sessions[id.Key()]
	delete(r.sessions, id.Key())
	r.mu.Unlock()
	if s != nil {
		s.Teardown()
	}
}

// SweepIdle tears down every session idle for longer than maxIdle and
// returns how many were removed.
func (r *Registry) SweepIdle(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	r.mu.Lock()
	var stale []*Session
	for key, s := range r.sessions {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s)
			delete(r.sessions, key)
		}
	}
	r.mu.Unlock()
	for _, s := range stale {
		s.Teardown()
	}
	return len(stale)
}

// StartSweeper runs SweepIdle on a ticker until ctx is cancelled.
func (r *Registry) StartSweeper(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if n := r.SweepIdle(maxIdle); n > 0 {
					log.Printf("session: swept %d idle sessions", n)
				}
			}
		}
	}()
}
