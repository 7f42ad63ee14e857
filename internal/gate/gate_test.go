package gate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"gym-dashboard/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeProvider lets a test decide when and how the point query returns and
// push change events by hand.
type fakeProvider struct {
	mu           sync.Mutex
	listeners    map[int]func(auth.ChangeEvent)
	next         int
	subscribes   int
	unsubscribes int

	release chan struct{}
	user    *auth.User
	err     error
}

func newFakeProvider(user *auth.User, err error) *fakeProvider {
	p := &fakeProvider{listeners: make(map[int]func(auth.ChangeEvent)), release: make(chan struct{}), user: user, err: err}
	close(p.release)
	return p
}

// newBlockedProvider returns a provider whose point query waits for unblock.
func newBlockedProvider(user *auth.User, err error) (*fakeProvider, func()) {
	p := &fakeProvider{listeners: make(map[int]func(auth.ChangeEvent)), release: make(chan struct{}), user: user, err: err}
	var once sync.Once
	return p, func() { once.Do(func() { close(p.release) }) }
}

func (p *fakeProvider) CurrentUser(ctx context.Context) (*auth.User, error) {
	select {
	case <-p.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return p.user, p.err
}

func (p *fakeProvider) Subscribe(fn func(auth.ChangeEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.subscribes++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.listeners[id]; ok {
			delete(p.listeners, id)
			p.unsubscribes++
		}
	}
}

func (p *fakeProvider) emit(ev auth.ChangeEvent) {
	p.mu.Lock()
	fns := make([]func(auth.ChangeEvent), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}

func (p *fakeProvider) counts() (subs, unsubs, live int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.subscribes, p.unsubscribes, len(p.listeners)
}

var owner = &auth.User{ID: 7, Email: "owner@gym.test", IsActive: true}

func signedIn(userID int) auth.ChangeEvent {
	return auth.ChangeEvent{Kind: auth.EventSignedIn, Session: &auth.Session{ID: "s1", UserID: userID, Email: "owner@gym.test"}}
}

var signedOut = auth.ChangeEvent{Kind: auth.EventSignedOut}

func waitResolved(t *testing.T, g *Gate) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s, err := g.Wait(ctx)
	require.NoError(t, err)
	return s
}

func TestGate_PointQuerySeedsState(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := New(newFakeProvider(owner, nil), zap.NewNop())
	assert.Equal(t, StateUninitialized, g.State())

	g.Start(context.Background())
	defer g.Close()

	assert.Equal(t, StateAuthenticated, waitResolved(t, g))
	require.NotNil(t, g.User())
	assert.Equal(t, 7, g.User().ID)
	assert.True(t, g.Authenticated())
}

func TestGate_PointQueryNoUser(t *testing.T) {
	defer goleak.VerifyNone(t)

	g := New(newFakeProvider(nil, nil), zap.NewNop())
	g.Start(context.Background())
	defer g.Close()

	assert.Equal(t, StateUnauthenticated, waitResolved(t, g))
	assert.Nil(t, g.User())
}

func TestGate_PointQueryFailureFailsClosed(t *testing.T) {
	defer goleak.VerifyNone(t)

	obs, logs := observer.New(zapcore.ErrorLevel)
	g := New(newFakeProvider(owner, errors.New("dial tcp: connection refused")), zap.New(obs))
	g.Start(context.Background())
	defer g.Close()

	assert.Equal(t, StateUnauthenticated, waitResolved(t, g))
	assert.Nil(t, g.User())
	require.Equal(t, 1, logs.FilterMessage("authentication check failed").Len())
}

func TestGate_EventsFollowQuery(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newFakeProvider(nil, nil)
	g := New(p, zap.NewNop())
	g.Start(context.Background())
	defer g.Close()
	require.Equal(t, StateUnauthenticated, waitResolved(t, g))

	p.emit(signedIn(7))
	assert.Equal(t, StateAuthenticated, g.State())
	require.NotNil(t, g.User())
	assert.Equal(t, "owner@gym.test", g.User().Email)

	p.emit(signedOut)
	assert.Equal(t, StateUnauthenticated, g.State())

	p.emit(signedIn(7))
	p.emit(signedIn(7))
	assert.Equal(t, StateAuthenticated, g.State())
}

func TestGate_EventSupersedesLateQuery(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, unblock := newBlockedProvider(owner, nil)
	g := New(p, zap.NewNop())
	g.Start(context.Background())
	defer g.Close()

	assert.Equal(t, StateLoading, g.State())

	p.emit(signedOut)
	assert.Equal(t, StateUnauthenticated, waitResolved(t, g))

	// The query reports a user, but it lost the race to the event.
	unblock()
	g.wg.Wait()
	assert.Equal(t, StateUnauthenticated, g.State())
	assert.Nil(t, g.User())
}

func TestGate_WaitHonoursContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, unblock := newBlockedProvider(owner, nil)
	defer unblock()
	g := New(p, zap.NewNop())
	g.Start(context.Background())
	defer g.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	s, err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StateLoading, s)
}

func TestGate_CloseStopsEverything(t *testing.T) {
	defer goleak.VerifyNone(t)

	p, unblock := newBlockedProvider(owner, nil)
	defer unblock()
	g := New(p, zap.NewNop())
	g.Start(context.Background())
	watch := g.Watch()

	g.Close()
	g.Close()

	assert.Equal(t, StateClosed, g.State())
	subs, unsubs, live := p.counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, unsubs)
	assert.Equal(t, 0, live)

	// A straggling callback captured before unsubscribe must not resurrect the gate.
	g.apply(signedIn(7))
	assert.Equal(t, StateClosed, g.State())
	assert.Nil(t, g.User())

	_, ok := <-watch
	assert.False(t, ok, "watch channel closed")

	s, err := g.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StateClosed, s)

	g.Start(context.Background())
	assert.Equal(t, StateClosed, g.State())
}

func TestGate_WatchCoalesces(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newFakeProvider(nil, nil)
	g := New(p, zap.NewNop())
	g.Start(context.Background())
	defer g.Close()
	waitResolved(t, g)

	watch := g.Watch()
	assert.Equal(t, StateUnauthenticated, <-watch)

	p.emit(signedIn(7))
	p.emit(signedOut)
	p.emit(signedIn(7))

	select {
	case s := <-watch:
		assert.Equal(t, StateAuthenticated, s)
	case <-time.After(time.Second):
		t.Fatal("no state on watch channel")
	}
	select {
	case s := <-watch:
		t.Fatalf("unexpected extra state %s", s)
	default:
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
	assert.Equal(t, "unknown", State(42).String())
}
