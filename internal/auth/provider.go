package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password HashPassword accepts.
const MinPasswordLength = 8

// tokenClaims is the JWT payload. The token only names a session; the session
// row is the source of truth, so deleting it revokes the token.
type tokenClaims struct {
	SessionID string `json:"sid"`
	UserID    int    `json:"uid"`
	jwt.RegisteredClaims
}

// Provider signs users in and out and notifies subscribers of session changes.
type Provider struct {
	store  Store
	secret []byte
	ttl    time.Duration
	hub    *hub
	log    *zap.Logger
	now    func() time.Time
}

// NewProvider constructs a Provider. ttl is the session lifetime granted on
// sign-in and on every refresh.
func NewProvider(store Store, secret string, ttl time.Duration, logger *zap.Logger) *Provider {
	return &Provider{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		hub:    newHub(),
		log:    logger.Named("auth"),
		now:    time.Now,
	}
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Register creates a user with a hashed password.
func (p *Provider) Register(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, fmt.Errorf("email %q is not valid", email)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	return p.store.CreateUser(ctx, email, hash)
}

// SignIn checks the credentials and opens a new session. It returns the signed
// token to hand to the browser.
func (p *Provider) SignIn(ctx context.Context, email, password string) (string, *Session, error) {
	u, err := p.store.UserByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("sign in: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: p.now().Add(p.ttl).Truncate(time.Second),
	}
	if err := p.store.CreateSession(ctx, *sess); err != nil {
		return "", nil, fmt.Errorf("sign in: %w", err)
	}
	token, err := p.sign(sess)
	if err != nil {
		return "", nil, fmt.Errorf("sign in: %w", err)
	}

	p.log.Info("signed in", zap.Int("user_id", u.ID), zap.String("session_id", sess.ID))
	p.hub.publish(sess.ID, ChangeEvent{Kind: EventSignedIn, Session: sess})
	return token, sess, nil
}

// SignOutEverywhere ends every session of userID and notifies each one.
func (p *Provider) SignOutEverywhere(ctx context.Context, userID int) (int, error) {
	ids, err := p.store.DeleteUserSessions(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("sign out everywhere: %w", err)
	}
	for _, id := range ids {
		p.hub.publish(id, ChangeEvent{Kind: EventSignedOut})
	}
	p.log.Info("signed out everywhere", zap.Int("user_id", userID), zap.Int("sessions", len(ids)))
	return len(ids), nil
}

// PurgeExpired deletes expired sessions and notifies their subscribers.
func (p *Provider) PurgeExpired(ctx context.Context) (int, error) {
	ids, err := p.store.DeleteExpiredSessions(ctx, p.now())
	if err != nil {
		return 0, fmt.Errorf("purge expired sessions: %w", err)
	}
	for _, id := range ids {
		p.hub.publish(id, ChangeEvent{Kind: EventSignedOut})
	}
	return len(ids), nil
}

// StartPurge starts a background goroutine that purges expired sessions every interval.
func (p *Provider) StartPurge(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := p.PurgeExpired(ctx)
				if err != nil {
					p.log.Warn("session purge failed", zap.Error(err))
					continue
				}
				if n > 0 {
					p.log.Debug("purged expired sessions", zap.Int("count", n))
				}
			}
		}
	}()
}

// Client returns the provider as seen by the holder of token.
func (p *Provider) Client(token string) *Client {
	c := &Client{p: p}
	if token != "" {
		c.claims, c.parseErr = p.parse(token)
	}
	return c
}

func (p *Provider) sign(sess *Session) (string, error) {
	claims := &tokenClaims{
		SessionID: sess.ID,
		UserID:    sess.UserID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.Email,
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
			IssuedAt:  jwt.NewNumericDate(p.now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
}

func (p *Provider) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid || claims.SessionID == "" {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// Client is a per-browser view of the Provider, bound to one token.
type Client struct {
	p        *Provider
	claims   *tokenClaims
	parseErr error
}

// SessionID returns the session named by the token, or "" when the token is absent or invalid.
func (c *Client) SessionID() string {
	if c.claims == nil {
		return ""
	}
	return c.claims.SessionID
}

// Session returns the live session, or nil when there is none.
func (c *Client) Session(ctx context.Context) (*Session, error) {
	if c.claims == nil {
		if c.parseErr != nil {
			c.p.log.Debug("rejected token", zap.Error(c.parseErr))
		}
		return nil, nil
	}
	sess, err := c.p.store.SessionByID(ctx, c.claims.SessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// CurrentUser returns the signed-in user, or nil when there is no live session.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	sess, err := c.Session(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	u, err := c.p.store.UserByID(ctx, sess.UserID)
	if errors.Is(err, ErrUserNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Subscribe registers fn for changes to this client's session. A client without
// a valid token gets a subscription that never fires.
func (c *Client) Subscribe(fn func(ChangeEvent)) (unsubscribe func()) {
	if c.claims == nil {
		return func() {}
	}
	return c.p.hub.subscribe(c.claims.SessionID, fn)
}

// Logout ends this client's session and notifies its subscribers.
func (c *Client) Logout(ctx context.Context) error {
	if c.claims == nil {
		return nil
	}
	if err := c.p.store.DeleteSession(ctx, c.claims.SessionID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.p.log.Info("signed out", zap.Int("user_id", c.claims.UserID), zap.String("session_id", c.claims.SessionID))
	c.p.hub.publish(c.claims.SessionID, ChangeEvent{Kind: EventSignedOut})
	return nil
}

// Refresh extends the session and returns a re-signed token.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	sess, err := c.Session(ctx)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	if sess == nil {
		return "", ErrSessionNotFound
	}
	sess.ExpiresAt = c.p.now().Add(c.p.ttl).Truncate(time.Second)
	if err := c.p.store.ExtendSession(ctx, sess.ID, sess.ExpiresAt); err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	token, err := c.p.sign(sess)
	if err != nil {
		return "", fmt.Errorf("refresh: %w", err)
	}
	c.p.hub.publish(sess.ID, ChangeEvent{Kind: EventTokenRefreshed, Session: sess})
	return token, nil
}
