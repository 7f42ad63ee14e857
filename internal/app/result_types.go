package app

import (
	"time"

	"gym-dashboard/internal/auth"
)

// SignInResult carries the token for the browser cookie.
type SignInResult struct {
	Token     string    `json:"-"`
	UserID    int       `json:"user_id"`
	Email     string    `json:"email"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newSignInResult(token string, s *auth.Session) *SignInResult {
	return &SignInResult{
		Token:     token,
		UserID:    s.UserID,
		Email:     s.Email,
		SessionID: s.ID,
		ExpiresAt: s.ExpiresAt,
	}
}

// UserResult is the signed-in user's profile as shown in the header.
type UserResult struct {
	UserID    int    `json:"user_id"`
	Email     string `json:"email"`
	OwnerName string `json:"owner_name"`
	GymName   string `json:"gym_name"`
}

// ShellResult is the shell state plus the header badge count.
type ShellResult struct {
	Selection         string `json:"selection"`
	MobileMenuOpen    bool   `json:"mobile_menu_open"`
	SearchQuery       string `json:"search_query"`
	NotificationCount int    `json:"notification_count"`
}
