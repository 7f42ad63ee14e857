// Package gate decides whether a browser sees the dashboard or the sign-in flow.
//
// A Gate seeds its state with one point query against the identity provider and
// then follows the provider's change events. Events always win: once an event has
// been applied, a late query result is dropped. Failures of the point query fail
// closed.
package gate

import (
	"context"
	"sync"

	"gym-dashboard/internal/auth"

	"go.uber.org/zap"
)

// State is the gate's position in its lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateAuthenticated
	StateUnauthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// IdentityProvider is the part of the auth client the gate depends on.
type IdentityProvider interface {
	CurrentUser(ctx context.Context) (*auth.User, error)
	Subscribe(fn func(auth.ChangeEvent)) (unsubscribe func())
}

// Gate tracks one browser's authentication state.
type Gate struct {
	provider IdentityProvider
	log      *zap.Logger

	mu          sync.Mutex
	state       State
	user        *auth.User
	eventSeen   bool
	watchers    []chan State
	unsubscribe func()
	cancel      context.CancelFunc

	resolved     chan struct{}
	resolvedOnce sync.Once
	wg           sync.WaitGroup
}

// New returns a gate in StateUninitialized.
func New(provider IdentityProvider, logger *zap.Logger) *Gate {
	return &Gate{
		provider: provider,
		log:      logger.Named("gate"),
		resolved: make(chan struct{}),
	}
}

// Start runs the point query in the background and subscribes to change events.
// Only the first call has any effect, and a closed gate stays closed.
func (g *Gate) Start(ctx context.Context) {
	g.mu.Lock()
	if g.state != StateUninitialized {
		g.mu.Unlock()
		return
	}
	g.state = StateLoading
	qctx, cancel := context.WithCancel(ctx)
	g.cancel = cancel
	g.wg.Add(1)
	g.mu.Unlock()

	go g.query(qctx)

	unsubscribe := g.provider.Subscribe(g.apply)

	g.mu.Lock()
	if g.state == StateClosed {
		g.mu.Unlock()
		unsubscribe()
		return
	}
	g.unsubscribe = unsubscribe
	g.mu.Unlock()
}

func (g *Gate) query(ctx context.Context) {
	defer g.wg.Done()

	user, err := g.provider.CurrentUser(ctx)
	if err != nil {
		if ctx.Err() == nil {
			g.log.Error("authentication check failed", zap.Error(err))
		}
		user = nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateClosed || g.eventSeen {
		return
	}
	g.user = user
	g.setLocked(stateFor(user != nil))
}

// apply handles one change event from the provider.
func (g *Gate) apply(ev auth.ChangeEvent) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateClosed {
		return
	}
	g.eventSeen = true

	switch {
	case ev.Session == nil:
		g.user = nil
	case g.user == nil || g.user.ID != ev.Session.UserID:
		g.user = &auth.User{ID: ev.Session.UserID, Email: ev.Session.Email, IsActive: true}
	}
	g.log.Debug("auth state change", zap.String("event", string(ev.Kind)), zap.Bool("session", ev.Session != nil))
	g.setLocked(stateFor(ev.Session != nil))
}

func stateFor(authenticated bool) State {
	if authenticated {
		return StateAuthenticated
	}
	return StateUnauthenticated
}

// setLocked moves to s and notifies watchers. g.mu must be held.
func (g *Gate) setLocked(s State) {
	g.state = s
	g.resolvedOnce.Do(func() { close(g.resolved) })
	for _, ch := range g.watchers {
		publishLatest(ch, s)
	}
}

// publishLatest replaces any unread value in ch with s.
func publishLatest(ch chan State, s State) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- s:
	default:
	}
}

// Wait blocks until the first resolution, Close, or ctx is done.
func (g *Gate) Wait(ctx context.Context) (State, error) {
	select {
	case <-g.resolved:
		return g.State(), nil
	case <-ctx.Done():
		return g.State(), ctx.Err()
	}
}

// State returns the current state.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Authenticated reports whether the gate currently shows the dashboard.
func (g *Gate) Authenticated() bool {
	return g.State() == StateAuthenticated
}

// User returns a copy of the signed-in user, or nil.
func (g *Gate) User() *auth.User {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != StateAuthenticated || g.user == nil {
		return nil
	}
	u := *g.user
	return &u
}

// Watch returns a channel carrying the latest state. Slow readers only see the
// most recent value. The channel is closed by Close.
func (g *Gate) Watch() <-chan State {
	ch := make(chan State, 1)

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == StateClosed {
		close(ch)
		return ch
	}
	if g.state == StateAuthenticated || g.state == StateUnauthenticated {
		ch <- g.state
	}
	g.watchers = append(g.watchers, ch)
	return ch
}

// Close releases the subscription and waits for the point query to finish.
// After Close returns the gate never changes state again.
func (g *Gate) Close() {
	g.mu.Lock()
	if g.state == StateClosed {
		g.mu.Unlock()
		return
	}
	g.state = StateClosed
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	cancel := g.cancel
	watchers := g.watchers
	g.watchers = nil
	g.user = nil
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
	if cancel != nil {
		cancel()
	}
	g.wg.Wait()

	g.resolvedOnce.Do(func() { close(g.resolved) })
	for _, ch := range watchers {
		close(ch)
	}
}
