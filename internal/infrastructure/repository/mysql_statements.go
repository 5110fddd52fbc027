package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/database"
	"finstatements.com/internal/infrastructure/logger"
)

// MySQLStatements implements the StatementRepository port on MySQL via GORM
type MySQLStatements struct {
	client *database.MySQLClient
	logger logger.Logger
}

// NewMySQLStatements creates a new MySQL statement store
func NewMySQLStatements(client *database.MySQLClient, logger logger.Logger) port.StatementRepository {
	return &MySQLStatements{
		client: client,
		logger: logger,
	}
}

// Append inserts the statement in a transaction that holds the owner's user
// row FOR UPDATE, serializing writers for that user across instances.
func (r *MySQLStatements) Append(ctx context.Context, s entity.Statement) (entity.Statement, error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}

	err := r.client.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner mysqlUser
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", s.UserID).
			First(&owner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entity.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		if s.Type == entity.OperationWithdraw {
			var balance decimal.Decimal
			err := tx.Model(&mysqlStatement{}).
				Select("COALESCE(SUM(CASE WHEN type = ? THEN amount ELSE -amount END), 0)", string(entity.OperationDeposit)).
				Where("user_id = ?", s.UserID).
				Row().
				Scan(&balance)
			if err != nil {
				return err
			}
			if s.Amount.GreaterThan(balance) {
				return entity.ErrInsufficientFunds
			}
		}

		row := mysqlStatement{
			ID:          s.ID,
			UserID:      s.UserID,
			Type:        string(s.Type),
			Amount:      s.Amount,
			Description: s.Description,
			CreatedAt:   s.CreatedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", entity.ErrDuplicateStatement, s.ID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return entity.Statement{}, storeError("append statement", err)
	}

	r.logger.LogDebug(ctx, "Statement appended",
		"statement_id", s.ID,
		"user_id", s.UserID,
		"type", string(s.Type))

	return s, nil
}

// ListByUser returns the user's statements ordered by creation then insertion
func (r *MySQLStatements) ListByUser(ctx context.Context, userID string) ([]entity.Statement, error) {
	var rows []mysqlStatement
	err := r.client.DB().WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, seq").
		Find(&rows).Error
	if err != nil {
		return nil, storeError("list statements", err)
	}

	out := make([]entity.Statement, 0, len(rows))
	for i := range rows {
		out = append(out, rows[i].toEntity())
	}
	return out, nil
}

// GetByIDAndUser returns the statement only if userID owns it
func (r *MySQLStatements) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Statement, error) {
	var row mysqlStatement
	err := r.client.DB().WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrStatementNotFound
	}
	if err != nil {
		return nil, storeError("get statement", err)
	}

	s := row.toEntity()
	return &s, nil
}
