package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/logger"
)

// CreateStatementUseCase records a deposit or withdrawal for a user
type CreateStatementUseCase struct {
	users      port.UserDirectory
	statements port.StatementRepository
	publisher  port.EventPublisher
	logger     logger.Logger
	locks      *userLocks
}

// NewCreateStatementUseCase creates a new CreateStatementUseCase
func NewCreateStatementUseCase(
	users port.UserDirectory,
	statements port.StatementRepository,
	publisher port.EventPublisher,
	logger logger.Logger,
) *CreateStatementUseCase {
	return &CreateStatementUseCase{
		users:      users,
		statements: statements,
		publisher:  publisher,
		logger:     logger,
		locks:      newUserLocks(),
	}
}

// CreateStatementRequest contains the request data for creating a statement
type CreateStatementRequest struct {
	UserID      string
	Type        entity.OperationType
	Amount      decimal.Decimal
	Description string
}

// Execute validates and appends a statement, returning the stored entry
func (uc *CreateStatementUseCase) Execute(ctx context.Context, req CreateStatementRequest) (*entity.Statement, error) {
	if err := ensureUserExists(ctx, uc.users, req.UserID); err != nil {
		return nil, err
	}

	statement, err := entity.NewStatement(req.UserID, req.Type, req.Amount, req.Description)
	if err != nil {
		return nil, err
	}

	stored, err := uc.appendLocked(ctx, *statement)
	if err != nil {
		return nil, err
	}

	if err := uc.publisher.Publish(ctx, entity.NewStatementCreated(stored)); err != nil {
		uc.logger.LogWarning(ctx, "Failed to publish statement event",
			"statement_id", stored.ID, "user_id", stored.UserID, "error", err.Error())
	}

	return &stored, nil
}

// appendLocked runs the balance check and the append under the user's lock.
// Publishing happens after the lock is released.
func (uc *CreateStatementUseCase) appendLocked(ctx context.Context, statement entity.Statement) (entity.Statement, error) {
	unlock := uc.locks.lock(statement.UserID)
	defer unlock()

	if statement.Type == entity.OperationWithdraw {
		history, err := uc.statements.ListByUser(ctx, statement.UserID)
		if err != nil {
			return entity.Statement{}, fmt.Errorf("failed to load statements: %w", err)
		}
		balance := entity.ComputeBalance(history)
		if statement.Amount.GreaterThan(balance) {
			return entity.Statement{}, fmt.Errorf("%w: balance %s, requested %s",
				entity.ErrInsufficientFunds, balance.String(), statement.Amount.String())
		}
	}

	stored, err := uc.statements.Append(ctx, statement)
	if err != nil {
		return entity.Statement{}, fmt.Errorf("failed to append statement: %w", err)
	}
	return stored, nil
}
