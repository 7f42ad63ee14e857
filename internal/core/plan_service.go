package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PlanService lists membership plans.
type PlanService interface {
	ListPlans(ctx context.Context, ownerID int) ([]Plan, error)
}

type planService struct {
	pool *pgxpool.Pool
}

// NewPlanService constructs a PlanService backed by PostgreSQL.
func NewPlanService(pool *pgxpool.Pool) PlanService {
	return &planService{pool: pool}
}

// ListPlans returns the owner's active plans, cheapest first.
func (s *planService) ListPlans(ctx context.Context, ownerID int) ([]Plan, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, owner_id, name, duration_days, price, is_active
		FROM plans
		WHERE owner_id = $1 AND is_active = true
		ORDER BY price, name`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		var p Plan
		if err := rows.Scan(&p.ID, &p.OwnerID, &p.Name, &p.DurationDays, &p.Price, &p.IsActive); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
