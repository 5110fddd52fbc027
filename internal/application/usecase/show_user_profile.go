package usecase

import (
	"context"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
)

// ShowUserProfileUseCase returns the stored user
type ShowUserProfileUseCase struct {
	users port.UserRepository
}

// NewShowUserProfileUseCase creates a new ShowUserProfileUseCase
func NewShowUserProfileUseCase(users port.UserRepository) *ShowUserProfileUseCase {
	return &ShowUserProfileUseCase{users: users}
}

// Execute loads the user by ID
func (uc *ShowUserProfileUseCase) Execute(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, entity.ErrUserNotFound
	}
	return user, nil
}
