package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MemberService provides member operations scoped to a gym owner.
type MemberService interface {
	// ListMembers returns the owner's members ordered by name.
	ListMembers(ctx context.Context, ownerID int) ([]Member, error)

	// CreateMember adds a member and returns the stored row.
	CreateMember(ctx context.Context, ownerID int, input MemberInput) (*Member, error)
}

// Validate trims the input and checks the required fields.
func (in *MemberInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" {
		return fmt.Errorf("%w: member name is required", ErrInvalidInput)
	}
	if in.Email != "" && !strings.Contains(in.Email, "@") {
		return fmt.Errorf("%w: member email %q is not valid", ErrInvalidInput, in.Email)
	}
	return nil
}

type memberService struct {
	pool *pgxpool.Pool
}

// NewMemberService constructs a MemberService backed by PostgreSQL.
func NewMemberService(pool *pgxpool.Pool) MemberService {
	return &memberService{pool: pool}
}

const memberColumns = `m.id, m.owner_id, m.branch_id, m.plan_id, p.name, m.name, m.email, m.phone,
	m.joined_at, m.expires_at, m.status`

func scanMember(row pgx.Row) (*Member, error) {
	m := &Member{}
	err := row.Scan(&m.ID, &m.OwnerID, &m.BranchID, &m.PlanID, &m.PlanName, &m.Name, &m.Email, &m.Phone,
		&m.JoinedAt, &m.ExpiresAt, &m.Status)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (s *memberService) ListMembers(ctx context.Context, ownerID int) ([]Member, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+memberColumns+`
		FROM members m
		LEFT JOIN plans p ON p.id = m.plan_id AND p.owner_id = m.owner_id
		WHERE m.owner_id = $1
		ORDER BY m.name, m.id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *memberService) CreateMember(ctx context.Context, ownerID int, input MemberInput) (*Member, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	if err := requireOwnedBranch(ctx, s.pool, ownerID, input.BranchID); err != nil {
		return nil, err
	}
	if err := requireOwnedPlan(ctx, s.pool, ownerID, input.PlanID); err != nil {
		return nil, err
	}

	var id int
	// expires_at follows the plan duration when a plan is chosen.
	err := s.pool.QueryRow(ctx, `
		INSERT INTO members (owner_id, branch_id, plan_id, name, email, phone, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6,
		        (SELECT CURRENT_DATE + duration_days FROM plans WHERE id = $3 AND owner_id = $1))
		RETURNING id`,
		ownerID, input.BranchID, input.PlanID, input.Name, input.Email, input.Phone,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create member %q: %w", input.Name, err)
	}

	m, err := scanMember(s.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM members m
		LEFT JOIN plans p ON p.id = m.plan_id AND p.owner_id = m.owner_id
		WHERE m.id = $1 AND m.owner_id = $2`,
		id, ownerID,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("member id=%d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reload member id=%d: %w", id, err)
	}
	return m, nil
}
