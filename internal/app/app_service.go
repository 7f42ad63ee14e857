package app

import (
	"context"
	"fmt"
	"strings"

	"gym-dashboard/internal/auth"
	"gym-dashboard/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var _ IdentityClient = (*auth.Client)(nil)

type appService struct {
	pool     *pgxpool.Pool
	provider *auth.Provider
	state    *core.StateService
	members  core.MemberService
	payments core.PaymentService
}

// NewAppService constructs the ApplicationService implementation.
func NewAppService(
	pool *pgxpool.Pool,
	provider *auth.Provider,
	state *core.StateService,
	members core.MemberService,
	payments core.PaymentService,
) ApplicationService {
	return &appService{
		pool:     pool,
		provider: provider,
		state:    state,
		members:  members,
		payments: payments,
	}
}

func (s *appService) Ping(ctx context.Context) error {
	if s.pool == nil {
		return fmt.Errorf("no database pool")
	}
	return s.pool.Ping(ctx)
}

func (s *appService) SignIn(ctx context.Context, email, password string) (*SignInResult, error) {
	token, sess, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return newSignInResult(token, sess), nil
}

func (s *appService) Client(token string) IdentityClient {
	return s.provider.Client(token)
}

func (s *appService) SignOutEverywhere(ctx context.Context, userID int) (int, error) {
	return s.provider.SignOutEverywhere(ctx, userID)
}

func (s *appService) LoadState(ctx context.Context, user core.AuthUser) (*core.GymState, error) {
	return s.state.Load(ctx, user)
}

func (s *appService) AddMember(ctx context.Context, req AddMemberRequest) (*core.Member, error) {
	return s.members.CreateMember(ctx, req.OwnerID, core.MemberInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		PlanID:   req.PlanID,
		BranchID: req.BranchID,
	})
}

func (s *appService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*core.Payment, error) {
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return nil, err
	}
	return s.payments.RecordPayment(ctx, req.OwnerID, core.PaymentInput{
		MemberID: req.MemberID,
		PlanID:   req.PlanID,
		Amount:   amount,
		Method:   req.Method,
	})
}

// ParseAmount reads a rupee amount as typed into a form: an optional ₹ sign,
// optional thousands separators, and up to two decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "₹")
	clean = strings.ReplaceAll(strings.TrimSpace(clean), ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", core.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", core.ErrInvalidInput, s)
	}
	if d.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("%w: amount %q has more than two decimal places", core.ErrInvalidInput, s)
	}
	return d, nil
}
