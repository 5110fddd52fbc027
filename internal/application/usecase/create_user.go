package usecase

import (
	"context"
	"fmt"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
)

// CreateUserUseCase registers a new user
type CreateUserUseCase struct {
	users  port.UserRepository
	hasher port.PasswordHasher
}

// NewCreateUserUseCase creates a new CreateUserUseCase
func NewCreateUserUseCase(users port.UserRepository, hasher port.PasswordHasher) *CreateUserUseCase {
	return &CreateUserUseCase{
		users:  users,
		hasher: hasher,
	}
}

// Execute validates the request and stores the user with a hashed password
func (uc *CreateUserUseCase) Execute(ctx context.Context, req entity.RegisterUserRequest) (*entity.User, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := uc.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if existing != nil {
		return nil, entity.ErrUserAlreadyExists
	}

	hash, err := uc.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := uc.users.Create(ctx, entity.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}
