package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/logger"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

type pgStatement struct {
	ID          string          `db:"id"`
	UserID      string          `db:"user_id"`
	Type        string          `db:"type"`
	Amount      decimal.Decimal `db:"amount"`
	Description string          `db:"description"`
	CreatedAt   time.Time       `db:"created_at"`
}

func (r pgStatement) toEntity() entity.Statement {
	return entity.Statement{
		ID:          r.ID,
		UserID:      r.UserID,
		Type:        entity.OperationType(r.Type),
		Amount:      r.Amount,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.UTC(),
	}
}

// PostgresStatements implements the StatementRepository port on PostgreSQL
type PostgresStatements struct {
	db     *sqlx.DB
	logger logger.Logger
}

// NewPostgresStatements creates a new PostgreSQL statement store
func NewPostgresStatements(db *sqlx.DB, logger logger.Logger) port.StatementRepository {
	return &PostgresStatements{
		db:     db,
		logger: logger,
	}
}

// Append inserts the statement inside a transaction holding a per-user
// advisory lock, so concurrent withdrawals from any instance are serialized.
func (r *PostgresStatements) Append(ctx context.Context, s entity.Statement) (entity.Statement, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.Statement{}, storeError("begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, s.UserID); err != nil {
		return entity.Statement{}, storeError("lock user", err)
	}

	if s.Type == entity.OperationWithdraw {
		var balance decimal.Decimal
		err := tx.GetContext(ctx, &balance, `
			SELECT COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount ELSE -amount END), 0)
			FROM statements
			WHERE user_id = $1`, s.UserID)
		if err != nil {
			return entity.Statement{}, storeError("balance", err)
		}
		if s.Amount.GreaterThan(balance) {
			return entity.Statement{}, entity.ErrInsufficientFunds
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO statements (id, user_id, type, amount, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.UserID, string(s.Type), s.Amount, s.Description, s.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case pgUniqueViolation:
				return entity.Statement{}, fmt.Errorf("%w: %s", entity.ErrDuplicateStatement, s.ID)
			case pgForeignKeyViolation:
				return entity.Statement{}, entity.ErrUserNotFound
			}
		}
		return entity.Statement{}, storeError("insert statement", err)
	}

	if err := tx.Commit(); err != nil {
		return entity.Statement{}, storeError("commit", err)
	}

	r.logger.LogDebug(ctx, "Statement appended",
		"statement_id", s.ID,
		"user_id", s.UserID,
		"type", string(s.Type))

	return s, nil
}

// ListByUser returns the user's statements ordered by creation then insertion
func (r *PostgresStatements) ListByUser(ctx context.Context, userID string) ([]entity.Statement, error) {
	var rows []pgStatement
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, user_id, type, amount, description, created_at
		FROM statements
		WHERE user_id = $1
		ORDER BY created_at, seq`, userID)
	if err != nil {
		return nil, storeError("list statements", err)
	}

	out := make([]entity.Statement, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toEntity())
	}
	return out, nil
}

// GetByIDAndUser returns the statement only if userID owns it
func (r *PostgresStatements) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Statement, error) {
	var row pgStatement
	err := r.db.GetContext(ctx, &row, `
		SELECT id, user_id, type, amount, description, created_at
		FROM statements
		WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrStatementNotFound
		}
		return nil, storeError("get statement", err)
	}

	s := row.toEntity()
	return &s, nil
}
