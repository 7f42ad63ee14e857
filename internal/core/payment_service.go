package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PaymentMethods lists the accepted payment methods.
var PaymentMethods = []string{"cash", "card", "upi", "bank"}

// PaymentService provides payment operations scoped to a gym owner.
type PaymentService interface {
	// ListPayments returns the owner's payments, newest first.
	ListPayments(ctx context.Context, ownerID int) ([]Payment, error)

	// RecordPayment stores a payment for one of the owner's members.
	RecordPayment(ctx context.Context, ownerID int, input PaymentInput) (*Payment, error)
}

// Validate normalizes the method and checks amount and member.
func (in *PaymentInput) Validate() error {
	if in.MemberID <= 0 {
		return fmt.Errorf("%w: payment member is required", ErrInvalidInput)
	}
	if !in.Amount.IsPositive() {
		return fmt.Errorf("%w: payment amount must be positive, got %s", ErrInvalidInput, in.Amount.StringFixed(2))
	}
	if in.Method == "" {
		in.Method = "cash"
	}
	for _, m := range PaymentMethods {
		if m == in.Method {
			in.Amount = in.Amount.Round(2)
			return nil
		}
	}
	return fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, in.Method)
}

type paymentService struct {
	pool *pgxpool.Pool
}

// NewPaymentService constructs a PaymentService backed by PostgreSQL.
func NewPaymentService(pool *pgxpool.Pool) PaymentService {
	return &paymentService{pool: pool}
}

func (s *paymentService) ListPayments(ctx context.Context, ownerID int) ([]Payment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT p.id, p.owner_id, p.member_id, m.name, p.plan_id, p.amount, p.method, p.paid_at
		FROM payments p
		LEFT JOIN members m ON m.id = p.member_id AND m.owner_id = p.owner_id
		WHERE p.owner_id = $1
		ORDER BY p.paid_at DESC, p.id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.MemberID, &p.MemberName, &p.PlanID, &p.Amount, &p.Method, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *paymentService) RecordPayment(ctx context.Context, ownerID int, input PaymentInput) (*Payment, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	var memberName string
	err := s.pool.QueryRow(ctx,
		"SELECT name FROM members WHERE id = $1 AND owner_id = $2", input.MemberID, ownerID,
	).Scan(&memberName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("member id=%d: %w", input.MemberID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup member id=%d: %w", input.MemberID, err)
	}
	if err := requireOwnedPlan(ctx, s.pool, ownerID, input.PlanID); err != nil {
		return nil, err
	}

	p := &Payment{OwnerID: ownerID, MemberID: &input.MemberID, MemberName: &memberName, PlanID: input.PlanID}
	err = s.pool.QueryRow(ctx, `
		INSERT INTO payments (owner_id, member_id, plan_id, amount, method)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, amount, method, paid_at`,
		ownerID, input.MemberID, input.PlanID, input.Amount, input.Method,
	).Scan(&p.ID, &p.Amount, &p.Method, &p.PaidAt)
	if err != nil {
		return nil, fmt.Errorf("record payment for member id=%d: %w", input.MemberID, err)
	}
	return p, nil
}
