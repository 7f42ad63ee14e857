package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore is the PostgreSQL Store.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a Store backed by PostgreSQL.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

func (s *PGStore) scanUser(row pgx.Row, key string) (*User, error) {
	u := &User{}
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", key, ErrUserNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", key, err)
	}
	return u, nil
}

func (s *PGStore) UserByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_active, created_at
		FROM users
		WHERE lower(email) = $1 AND is_active = true`,
		email,
	), fmt.Sprintf("%q", email))
}

func (s *PGStore) UserByID(ctx context.Context, id int) (*User, error) {
	return s.scanUser(s.pool.QueryRow(ctx, `
		SELECT id, email, password_hash, is_active, created_at
		FROM users
		WHERE id = $1 AND is_active = true`,
		id,
	), fmt.Sprintf("id=%d", id))
}

func (s *PGStore) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u := &User{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, is_active, created_at`,
		email, passwordHash,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create user %q: %w", email, err)
	}
	return u, nil
}

func (s *PGStore) CreateSession(ctx context.Context, sess Session) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO auth_sessions (id, user_id, expires_at)
		VALUES ($1, $2, $3)`,
		sess.ID, sess.UserID, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create session for user id=%d: %w", sess.UserID, err)
	}
	return nil
}

func (s *PGStore) SessionByID(ctx context.Context, id string) (*Session, error) {
	sess := &Session{}
	err := s.pool.QueryRow(ctx, `
		SELECT s.id::text, s.user_id, u.email, s.expires_at
		FROM auth_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.id = $1 AND s.expires_at > now() AND u.is_active = true`,
		id,
	).Scan(&sess.ID, &sess.UserID, &sess.Email, &sess.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("session %s: %w", id, err)
	}
	return sess, nil
}

func (s *PGStore) SessionsForUser(ctx context.Context, userID int) ([]Session, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT s.id::text, s.user_id, u.email, s.expires_at
		FROM auth_sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.user_id = $1 AND s.expires_at > now()
		ORDER BY s.created_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sessions for user id=%d: %w", userID, err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Email, &sess.ExpiresAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

func (s *PGStore) ExtendSession(ctx context.Context, id string, expiresAt time.Time) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE auth_sessions SET expires_at = $2 WHERE id = $1 AND expires_at > now()", id, expiresAt)
	if err != nil {
		return fmt.Errorf("extend session %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("extend session %s: %w", id, ErrSessionNotFound)
	}
	return nil
}

func (s *PGStore) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, "DELETE FROM auth_sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (s *PGStore) DeleteUserSessions(ctx context.Context, userID int) ([]string, error) {
	return s.deleteReturning(ctx, "DELETE FROM auth_sessions WHERE user_id = $1 RETURNING id::text", userID)
}

func (s *PGStore) DeleteExpiredSessions(ctx context.Context, now time.Time) ([]string, error) {
	return s.deleteReturning(ctx, "DELETE FROM auth_sessions WHERE expires_at <= $1 RETURNING id::text", now)
}

func (s *PGStore) deleteReturning(ctx context.Context, sql string, arg any) ([]string, error) {
	rows, err := s.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("delete sessions: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("delete sessions: %w", err)
	}
	return ids, nil
}
