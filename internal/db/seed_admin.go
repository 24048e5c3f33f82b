package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/config"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/domain/account"
	"github.com/jeyfredc/ApiInscripcionMaterias/internal/security"
)

// EnsureAdminAccount seeds the bootstrap admin on startup when
// ADMIN_EMAIL and ADMIN_PASSWORD are configured. It is a no-op when the
// account already exists.
func EnsureAdminAccount(ctx context.Context, pool *pgxpool.Pool, cfg config.Config, hasher *security.Hasher) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	// check if the account exists

	var dummy int

	err := pool.QueryRow(ctx, `SELECT id FROM accounts WHERE email = $1`, cfg.AdminEmail).Scan(&dummy)

	if err == nil {
		return nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	var roleID int

	err = pool.QueryRow(ctx, `SELECT id FROM roles WHERE name = $1`, account.RoleAdmin).Scan(&roleID)

	if err != nil {
		return fmt.Errorf("seed admin: look up role: %w", err)
	}

	hash, err := hasher.Hash(cfg.AdminPassword)

	if err != nil {
		return fmt.Errorf("seed admin: hash password: %w", err)
	}

	_, err = pool.Exec(ctx,
		`SELECT id, name, email, role_name FROM create_account($1, $2, $3, $4)`,
		cfg.AdminName, cfg.AdminEmail, hash, roleID,
	)

	if err != nil {
		return fmt.Errorf("seed admin: create account: %w", err)
	}

	return nil
}
