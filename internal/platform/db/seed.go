package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"govpay/internal/domain/auth"
	"govpay/internal/platform/config"
)

// Seed ensures an administrator account exists so the instance is usable
// after a fresh deploy. It never overwrites an existing user.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE email = $1", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, name, surname, role)
    VALUES ($1,$2,$3,$4,$5)
  `, email, hash, "System", "Administrator", auth.RoleAdmin)
	return err
}
