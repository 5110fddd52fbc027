package usecase

import (
	"context"
	"fmt"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
)

// GetBalanceUseCase handles balance retrieval
type GetBalanceUseCase struct {
	users      port.UserDirectory
	statements port.StatementRepository
}

// NewGetBalanceUseCase creates a new GetBalanceUseCase
func NewGetBalanceUseCase(users port.UserDirectory, statements port.StatementRepository) *GetBalanceUseCase {
	return &GetBalanceUseCase{
		users:      users,
		statements: statements,
	}
}

// Execute returns the user's full history and the balance replayed from it
func (uc *GetBalanceUseCase) Execute(ctx context.Context, userID string) (*entity.Balance, error) {
	if err := ensureUserExists(ctx, uc.users, userID); err != nil {
		return nil, err
	}

	history, err := uc.statements.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load statements: %w", err)
	}
	if history == nil {
		history = []entity.Statement{}
	}

	return &entity.Balance{
		Statement: history,
		Balance:   entity.ComputeBalance(history),
	}, nil
}
