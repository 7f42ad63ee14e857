package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReminderService lists pending member reminders.
type ReminderService interface {
	ListReminders(ctx context.Context, ownerID int) ([]Reminder, error)
}

type reminderService struct {
	pool *pgxpool.Pool
}

// NewReminderService constructs a ReminderService backed by PostgreSQL.
func NewReminderService(pool *pgxpool.Pool) ReminderService {
	return &reminderService{pool: pool}
}

// ListReminders returns the owner's reminders, soonest due first. A reminder is
// derived for every member whose membership expires within the next 7 days and
// that has no explicit reminder row yet.
func (s *reminderService) ListReminders(ctx context.Context, ownerID int) ([]Reminder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT r.id, r.owner_id, r.member_id, m.name, r.message, r.due_at
		FROM reminders r
		LEFT JOIN members m ON m.id = r.member_id AND m.owner_id = r.owner_id
		WHERE r.owner_id = $1
		UNION ALL
		SELECT 0, m.owner_id, m.id, m.name, 'Membership expires soon', m.expires_at
		FROM members m
		WHERE m.owner_id = $1
		  AND m.expires_at IS NOT NULL
		  AND m.expires_at <= CURRENT_DATE + 7
		  AND NOT EXISTS (SELECT 1 FROM reminders r2 WHERE r2.member_id = m.id)
		ORDER BY 6, 1`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer rows.Close()

	var reminders []Reminder
	for rows.Next() {
		var r Reminder
		if err := rows.Scan(&r.ID, &r.OwnerID, &r.MemberID, &r.MemberName, &r.Message, &r.DueAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}
