package port

import (
	"context"

	"finstatements.com/internal/domain/entity"
)

// StatementRepository is the port for the append-only statement store
type StatementRepository interface {
	// Append stores s, assigning ID and CreatedAt when unset. Withdrawals are
	// re-checked against the stored balance inside the same write.
	Append(ctx context.Context, s entity.Statement) (entity.Statement, error)
	// ListByUser returns the user's statements in creation order
	ListByUser(ctx context.Context, userID string) ([]entity.Statement, error)
	GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Statement, error)
}
