// Package auth is the identity provider: password sign-in, server-side sessions
// carried in signed tokens, and push notification of session changes.
package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is returned when the email or password does not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound is returned when a user lookup matches no active user.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned when a session id is unknown or expired.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidToken is returned when a token fails signature or claim checks.
	ErrInvalidToken = errors.New("invalid token")
)

// User is an account that can sign in to the dashboard.
type User struct {
	ID           int
	Email        string
	PasswordHash string
	IsActive     bool
	CreatedAt    time.Time
}

// Session is one signed-in browser.
type Session struct {
	ID        string
	UserID    int
	Email     string
	ExpiresAt time.Time
}

// EventKind names an auth-state change.
type EventKind string

const (
	EventSignedIn       EventKind = "SIGNED_IN"
	EventSignedOut      EventKind = "SIGNED_OUT"
	EventTokenRefreshed EventKind = "TOKEN_REFRESHED"
)

// ChangeEvent is delivered to subscribers. Session is nil when there is no session.
type ChangeEvent struct {
	Kind    EventKind
	Session *Session
}

// Store persists users and sessions.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*User, error)
	UserByID(ctx context.Context, id int) (*User, error)
	CreateUser(ctx context.Context, email, passwordHash string) (*User, error)

	CreateSession(ctx context.Context, s Session) error
	// SessionByID returns ErrSessionNotFound for unknown or expired sessions.
	SessionByID(ctx context.Context, id string) (*Session, error)
	SessionsForUser(ctx context.Context, userID int) ([]Session, error)
	ExtendSession(ctx context.Context, id string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, id string) error
	// DeleteUserSessions removes every session of userID and returns their ids.
	DeleteUserSessions(ctx context.Context, userID int) ([]string, error)
	// DeleteExpiredSessions removes sessions expired at now and returns their ids.
	DeleteExpiredSessions(ctx context.Context, now time.Time) ([]string, error)
}
