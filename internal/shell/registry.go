package shell

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Registry keeps one Shell per browser session and forgets idle ones.
type Registry struct {
	mu     sync.Mutex
	shells map[string]*Shell
	ttl    time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// NewRegistry returns an empty registry. Shells unused for ttl are evicted by Purge.
func NewRegistry(ttl time.Duration, logger *zap.Logger) *Registry {
	return &Registry{
		shells: make(map[string]*Shell),
		ttl:    ttl,
		log:    logger,
		now:    time.Now,
	}
}

// Get returns the shell for sessionID, creating it with newShell on first use.
func (r *Registry) Get(sessionID string, newShell func() *Shell) *Shell {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shells[sessionID]
	if !ok {
		s = newShell()
		r.shells[sessionID] = s
	}
	s.touch(r.now())
	return s
}

// Remove forgets the shell for sessionID.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.shells, sessionID)
}

// Len returns the number of live shells.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shells)
}

// Purge evicts shells idle for longer than the ttl and returns how many were removed.
func (r *Registry) Purge() int {
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.shells {
		if s.idleSince().Before(cutoff) {
			delete(r.shells, id)
			n++
		}
	}
	return n
}

// StartPurge starts a background goroutine that evicts idle shells every interval.
func (r *Registry) StartPurge(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Purge(); n > 0 {
					r.log.Debug("evicted idle shells", zap.Int("count", n))
				}
			}
		}
	}()
}
