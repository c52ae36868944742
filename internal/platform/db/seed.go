package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"leavedesk/internal/domain/auth"
	"leavedesk/internal/platform/config"
)

// Seed provisions a development login and a starter policy set. It is
// idempotent: existing rows are left alone.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	policyID, err := seedPolicy(ctx, pool, "Standard", map[string]int{
		"sick":      10,
		"annual":    20,
		"maternity": 90,
		"paternity": 14,
	})
	if err != nil {
		return err
	}
	if _, err := seedPolicy(ctx, pool, "Probation", map[string]int{
		"sick":   5,
		"annual": 5,
	}); err != nil {
		return err
	}

	var employeeID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO employees (full_name, email, leave_policy_id)
    VALUES ($1,$2,$3)
    ON CONFLICT (email) DO UPDATE SET full_name = EXCLUDED.full_name
    RETURNING id
  `, "Default Admin", cfg.SeedAdminEmail, policyID).Scan(&employeeID); err != nil {
		return err
	}

	password := cfg.SeedAdminPassword
	if password == "" {
		password = "admin123!"
		slog.Warn("seeding admin with default password, change it", "email", cfg.SeedAdminEmail)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, employee_id)
    VALUES ($1,$2,$3)
    ON CONFLICT (email) DO NOTHING
  `, cfg.SeedAdminEmail, hash, employeeID); err != nil {
		return err
	}

	slog.Info("seed complete", "adminEmail", cfg.SeedAdminEmail)
	return nil
}

func seedPolicy(ctx context.Context, pool *pgxpool.Pool, name string, allowances map[string]int) (string, error) {
	var id string
	if err := pool.QueryRow(ctx, `
    INSERT INTO leave_policies (name)
    VALUES ($1)
    ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
    RETURNING id
  `, name).Scan(&id); err != nil {
		return "", err
	}
	for leaveType, days := range allowances {
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_policy_allowances (policy_id, leave_type, days)
      VALUES ($1,$2,$3)
      ON CONFLICT (policy_id, leave_type) DO UPDATE SET days = EXCLUDED.days
    `, id, leaveType, days); err != nil {
			return "", err
		}
	}
	return id, nil
}
