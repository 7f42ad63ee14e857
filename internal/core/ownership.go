package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// requireOwnedPlan returns ErrNotFound unless planID is nil or names a plan of ownerID.
func requireOwnedPlan(ctx context.Context, pool *pgxpool.Pool, ownerID int, planID *int) error {
	return requireOwned(ctx, pool, "SELECT 1 FROM plans WHERE id = $1 AND owner_id = $2", "plan", ownerID, planID)
}

// requireOwnedBranch returns ErrNotFound unless branchID is nil or names a branch of ownerID.
func requireOwnedBranch(ctx context.Context, pool *pgxpool.Pool, ownerID int, branchID *int) error {
	return requireOwned(ctx, pool, "SELECT 1 FROM branches WHERE id = $1 AND owner_id = $2", "branch", ownerID, branchID)
}

func requireOwned(ctx context.Context, pool *pgxpool.Pool, query, kind string, ownerID int, id *int) error {
	if id == nil {
		return nil
	}
	var one int
	err := pool.QueryRow(ctx, query, *id, ownerID).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s id=%d: %w", kind, *id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("lookup %s id=%d: %w", kind, *id, err)
	}
	return nil
}
