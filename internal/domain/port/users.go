package port

import (
	"context"

	"finstatements.com/internal/domain/entity"
)

// UserDirectory answers whether a user exists
type UserDirectory interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// UserRepository is the port for user persistence
type UserRepository interface {
	UserDirectory
	// Create assigns ID and timestamps. A taken email returns ErrUserAlreadyExists.
	Create(ctx context.Context, user entity.User) (entity.User, error)
	// FindByEmail and FindByID return nil, nil when no user matches
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id string) (*entity.User, error)
}
