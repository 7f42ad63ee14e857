package app

import (
	"context"

	"gym-dashboard/internal/auth"
	"gym-dashboard/internal/core"
)

// IdentityClient is the identity provider as seen by one browser. An empty or
// invalid token yields a client with no session.
type IdentityClient interface {
	SessionID() string
	CurrentUser(ctx context.Context) (*auth.User, error)
	Subscribe(fn func(auth.ChangeEvent)) (unsubscribe func())
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) (string, error)
}

// ApplicationService is the single interface the web adapter calls. It keeps
// handlers free of storage and token details.
type ApplicationService interface {
	// Ping checks that the database is reachable.
	Ping(ctx context.Context) error

	// SignIn verifies credentials and opens a session.
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)

	// Client returns the identity provider bound to a browser's token.
	Client(token string) IdentityClient

	// SignOutEverywhere ends every session of the user and returns how many were closed.
	SignOutEverywhere(ctx context.Context, userID int) (int, error)

	// LoadState reads the gym collections for the signed-in owner.
	LoadState(ctx context.Context, user core.AuthUser) (*core.GymState, error)

	// AddMember validates and stores a new member.
	AddMember(ctx context.Context, req AddMemberRequest) (*core.Member, error)

	// RecordPayment validates and stores a payment.
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (*core.Payment, error)
}
