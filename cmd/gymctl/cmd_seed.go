package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedDemoCmd = &cobra.Command{
	Use:   "seed-demo",
	Short: "Fill an owner's gym with demo data",
	Long: `Insert a demo branch, plans, members, payments, a reminder, and staff for
an existing owner. The owner must have no members yet unless --reset is
given, in which case the owner's gym data is wiped first. The account and
its sessions are left alone.`,
	Args: cobra.NoArgs,
	RunE: runSeedDemo,
}

func init() {
	seedDemoCmd.Flags().String("email", "", "Owner email (required)")
	seedDemoCmd.Flags().Bool("reset", false, "Delete the owner's existing gym data first")
	_ = seedDemoCmd.MarkFlagRequired("email")
	rootCmd.AddCommand(seedDemoCmd)
}

func runSeedDemo(cmd *cobra.Command, _ []string) error {
	email, _ := cmd.Flags().GetString("email")
	reset, _ := cmd.Flags().GetBool("reset")

	ctx := cmd.Context()
	pool, logger, err := connect(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()
	defer func() { _ = logger.Sync() }()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var ownerID int
	err = tx.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, strings.TrimSpace(email)).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("no owner with email %q, run create-owner first", email)
	}
	if err != nil {
		return fmt.Errorf("lookup owner: %w", err)
	}

	if reset {
		logger.Info("clearing gym data", zap.Int("owner_id", ownerID))
		for _, stmt := range []string{
			`DELETE FROM reminders WHERE owner_id = $1`,
			`DELETE FROM payments WHERE owner_id = $1`,
			`DELETE FROM staff WHERE owner_id = $1`,
			`DELETE FROM members WHERE owner_id = $1`,
			`DELETE FROM plans WHERE owner_id = $1`,
			`UPDATE profiles SET current_branch_id = NULL WHERE user_id = $1`,
			`DELETE FROM branches WHERE owner_id = $1`,
		} {
			if _, err := tx.Exec(ctx, stmt, ownerID); err != nil {
				return fmt.Errorf("clear gym data: %w", err)
			}
		}
	} else {
		var members int
		if err := tx.QueryRow(ctx, `SELECT count(*) FROM members WHERE owner_id = $1`, ownerID).Scan(&members); err != nil {
			return fmt.Errorf("count members: %w", err)
		}
		if members > 0 {
			return fmt.Errorf("owner already has %d members, pass --reset to replace them", members)
		}
	}

	var branchID int
	if err := tx.QueryRow(ctx, `
		INSERT INTO branches (owner_id, name, address, phone)
		VALUES ($1, 'Main Branch', '12 MG Road', '080-4000-1000')
		RETURNING id`, ownerID).Scan(&branchID); err != nil {
		return fmt.Errorf("insert branch: %w", err)
	}

	steps := []struct {
		name string
		sql  string
	}{
		{"plans", `
			INSERT INTO plans (owner_id, name, duration_days, price)
			VALUES ($1, 'Monthly', 30, 1500.00), ($1, 'Quarterly', 90, 4000.00), ($1, 'Annual', 365, 14000.00)`},
		{"members", `
			INSERT INTO members (owner_id, branch_id, plan_id, name, email, phone, joined_at, expires_at, status)
			SELECT $1, $2, p.id, m.name, m.email, m.phone,
			       CURRENT_DATE - m.age, CURRENT_DATE - m.age + p.duration_days, m.status
			FROM (VALUES
			    ('John Carter', 'john@example.com',  '9876543210', 'Monthly',   25, 'active'),
			    ('Priya Nair',  'priya@example.com', '9123456780', 'Quarterly', 10, 'active'),
			    ('Arjun Mehta', 'arjun@example.com', '9988776655', 'Annual',    40, 'active'),
			    ('Sara Khan',   'sara@example.com',  '9000011111', 'Monthly',   45, 'expired')
			) AS m(name, email, phone, plan, age, status)
			JOIN plans p ON p.owner_id = $1 AND p.name = m.plan`},
		{"payments", `
			INSERT INTO payments (owner_id, member_id, plan_id, amount, method, paid_at)
			SELECT $1, m.id, m.plan_id, p.price, x.method, m.joined_at
			FROM members m
			JOIN plans p ON p.id = m.plan_id
			JOIN (VALUES ('John Carter', 'upi'), ('Priya Nair', 'card'), ('Arjun Mehta', 'bank'), ('Sara Khan', 'cash'))
			     AS x(name, method) ON x.name = m.name
			WHERE m.owner_id = $1`},
		{"reminders", `
			INSERT INTO reminders (owner_id, member_id, message, due_at)
			SELECT $1, id, 'Membership lapsed, follow up about renewal', CURRENT_DATE
			FROM members WHERE owner_id = $1 AND status = 'expired'`},
		{"staff", `
			INSERT INTO staff (owner_id, branch_id, name, role, phone)
			VALUES ($1, $2, 'Ravi Kumar', 'Trainer', '9000022222'), ($1, $2, 'Meera Das', 'Front desk', '9000033333')`},
	}
	for _, s := range steps {
		args := []any{ownerID}
		if strings.Contains(s.sql, "$2") {
			args = append(args, branchID)
		}
		if _, err := tx.Exec(ctx, s.sql, args...); err != nil {
			return fmt.Errorf("insert %s: %w", s.name, err)
		}
		logger.Debug("seeded", zap.String("table", s.name))
	}

	if _, err := tx.Exec(ctx, `
		UPDATE profiles SET current_branch_id = $2 WHERE user_id = $1`, ownerID, branchID); err != nil {
		return fmt.Errorf("select branch: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "seeded demo gym for %s\n", email)
	return nil
}
