package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BranchService provides branch and staff lookups.
type BranchService interface {
	// ListBranches returns the owner's branches ordered by creation.
	ListBranches(ctx context.Context, ownerID int) ([]Branch, error)

	// ListStaff returns staff for one branch, or for all branches when branchID is nil.
	ListStaff(ctx context.Context, ownerID int, branchID *int) ([]StaffMember, error)
}

type branchService struct {
	pool *pgxpool.Pool
}

// NewBranchService constructs a BranchService backed by PostgreSQL.
func NewBranchService(pool *pgxpool.Pool) BranchService {
	return &branchService{pool: pool}
}

func (s *branchService) ListBranches(ctx context.Context, ownerID int) ([]Branch, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, name, address, phone, created_at
		FROM branches
		WHERE owner_id = $1
		ORDER BY created_at, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var branches []Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Address, &b.Phone, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		branches = append(branches, b)
	}
	return branches, rows.Err()
}

func (s *branchService) ListStaff(ctx context.Context, ownerID int, branchID *int) ([]StaffMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, branch_id, name, role, phone
		FROM staff
		WHERE owner_id = $1 AND ($2::int IS NULL OR branch_id = $2)
		ORDER BY name, id`,
		ownerID, branchID,
	)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var staff []StaffMember
	for rows.Next() {
		var m StaffMember
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.BranchID, &m.Name, &m.Role, &m.Phone); err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		staff = append(staff, m)
	}
	return staff, rows.Err()
}

// ProfileService reads and seeds owner profiles.
type ProfileService interface {
	// GetProfile returns the owner's profile or ErrNotFound.
	GetProfile(ctx context.Context, userID int) (*Profile, error)

	// UpsertProfile creates or replaces the owner's display details.
	UpsertProfile(ctx context.Context, p Profile) error
}

type profileService struct {
	pool *pgxpool.Pool
}

// NewProfileService constructs a ProfileService backed by PostgreSQL.
func NewProfileService(pool *pgxpool.Pool) ProfileService {
	return &profileService{pool: pool}
}

func (s *profileService) GetProfile(ctx context.Context, userID int) (*Profile, error) {
	p := &Profile{}
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, owner_name, gym_name, current_branch_id
		FROM profiles
		WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.OwnerName, &p.GymName, &p.CurrentBranchID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("profile user id=%d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile user id=%d: %w", userID, err)
	}
	return p, nil
}

func (s *profileService) UpsertProfile(ctx context.Context, p Profile) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO profiles (user_id, owner_name, gym_name, current_branch_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET owner_name = EXCLUDED.owner_name,
		    gym_name = EXCLUDED.gym_name,
		    current_branch_id = EXCLUDED.current_branch_id`,
		p.UserID, p.OwnerName, p.GymName, p.CurrentBranchID,
	)
	if err != nil {
		return fmt.Errorf("upsert profile user id=%d: %w", p.UserID, err)
	}
	return nil
}
