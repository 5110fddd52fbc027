package usecase

import (
	"context"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
)

// GetStatementOperationUseCase returns one statement owned by a user
type GetStatementOperationUseCase struct {
	users      port.UserDirectory
	statements port.StatementRepository
}

// NewGetStatementOperationUseCase creates a new GetStatementOperationUseCase
func NewGetStatementOperationUseCase(users port.UserDirectory, statements port.StatementRepository) *GetStatementOperationUseCase {
	return &GetStatementOperationUseCase{
		users:      users,
		statements: statements,
	}
}

// Execute looks up statementID scoped to userID
func (uc *GetStatementOperationUseCase) Execute(ctx context.Context, userID, statementID string) (*entity.Statement, error) {
	if err := ensureUserExists(ctx, uc.users, userID); err != nil {
		return nil, err
	}
	if statementID == "" {
		return nil, entity.ErrStatementNotFound
	}

	return uc.statements.GetByIDAndUser(ctx, statementID, userID)
}
