package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	mu       sync.Mutex
	now      func() time.Time
	users    map[int]*User
	sessions map[string]Session
	nextID   int
	failWith error
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{now: now, users: make(map[int]*User), sessions: make(map[string]Session)}
}

func (m *memStore) UserByEmail(_ context.Context, email string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	for _, u := range m.users {
		if u.IsActive && strings.EqualFold(u.Email, strings.TrimSpace(email)) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", email, ErrUserNotFound)
}

func (m *memStore) UserByID(_ context.Context, id int) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return nil, fmt.Errorf("user id=%d: %w", id, ErrUserNotFound)
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateUser(_ context.Context, email, passwordHash string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	u := &User{ID: m.nextID, Email: strings.ToLower(email), PasswordHash: passwordHash, IsActive: true, CreatedAt: m.now()}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (m *memStore) CreateSession(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memStore) SessionByID(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	s, ok := m.sessions[id]
	if !ok || !s.ExpiresAt.After(m.now()) {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	return &s, nil
}

func (m *memStore) SessionsForUser(_ context.Context, userID int) ([]Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Session
	for _, s := range m.sessions {
		if s.UserID == userID && s.ExpiresAt.After(m.now()) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) ExtendSession(_ context.Context, id string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.ExpiresAt = expiresAt
	m.sessions[id] = s
	return nil
}

func (m *memStore) DeleteSession(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *memStore) DeleteUserSessions(_ context.Context, userID int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.sessions {
		if s.UserID == userID {
			ids = append(ids, id)
			delete(m.sessions, id)
		}
	}
	return ids, nil
}

func (m *memStore) DeleteExpiredSessions(_ context.Context, now time.Time) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []string
	for id, s := range m.sessions {
		if !s.ExpiresAt.After(now) {
			ids = append(ids, id)
			delete(m.sessions, id)
		}
	}
	return ids, nil
}
