package usecase

import (
	"context"
	"fmt"
	"strings"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
)

// AuthenticateUserUseCase exchanges credentials for a session token
type AuthenticateUserUseCase struct {
	users  port.UserRepository
	hasher port.PasswordHasher
	tokens port.TokenService
}

// NewAuthenticateUserUseCase creates a new AuthenticateUserUseCase
func NewAuthenticateUserUseCase(
	users port.UserRepository,
	hasher port.PasswordHasher,
	tokens port.TokenService,
) *AuthenticateUserUseCase {
	return &AuthenticateUserUseCase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// AuthenticateUserRequest contains the login credentials
type AuthenticateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthenticateUserResponse is returned on a successful login
type AuthenticateUserResponse struct {
	User  *entity.User `json:"user"`
	Token string       `json:"token"`
}

// Execute verifies the credentials. Unknown email and wrong password
// both return ErrIncorrectCredentials.
func (uc *AuthenticateUserUseCase) Execute(ctx context.Context, req AuthenticateUserRequest) (*AuthenticateUserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, entity.ErrIncorrectCredentials
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up email: %w", err)
	}
	if user == nil {
		return nil, entity.ErrIncorrectCredentials
	}

	if err := uc.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, entity.ErrIncorrectCredentials
	}

	token, err := uc.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthenticateUserResponse{User: user, Token: token}, nil
}
