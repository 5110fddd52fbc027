package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id VARCHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) UNIQUE NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS statements (
		id VARCHAR(36) PRIMARY KEY,
		seq BIGSERIAL NOT NULL,
		user_id VARCHAR(36) NOT NULL REFERENCES users(id),
		type VARCHAR(16) NOT NULL CHECK (type IN ('deposit', 'withdraw')),
		amount NUMERIC(20, 8) NOT NULL CHECK (amount > 0),
		description TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_statements_user_created ON statements(user_id, created_at, seq)`,
}

// MigratePostgres creates the users and statements tables if missing
func MigratePostgres(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range postgresSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
