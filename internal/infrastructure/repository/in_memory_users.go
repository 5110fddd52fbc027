package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/logger"
)

// InMemoryUsers implements the UserRepository port
type InMemoryUsers struct {
	mu      sync.RWMutex
	byID    map[string]entity.User
	byEmail map[string]string
	logger  logger.Logger
}

// NewInMemoryUsers creates a new in-memory user store
func NewInMemoryUsers(logger logger.Logger) port.UserRepository {
	return &InMemoryUsers{
		byID:    make(map[string]entity.User),
		byEmail: make(map[string]string),
		logger:  logger,
	}
}

// Create stores a new user
func (r *InMemoryUsers) Create(ctx context.Context, user entity.User) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return entity.User{}, entity.ErrUserAlreadyExists
	}

	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.byID[user.ID] = user
	r.byEmail[user.Email] = user.ID

	r.logger.LogInfo(ctx, "User created", "user_id", user.ID)

	return user, nil
}

// Exists reports whether a user with id is stored
func (r *InMemoryUsers) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.byID[id]
	return ok, nil
}

// FindByEmail returns nil when no user has the email
func (r *InMemoryUsers) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, nil
	}
	user := r.byID[id]
	return &user, nil
}

// FindByID returns nil when the user does not exist
func (r *InMemoryUsers) FindByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	return &user, nil
}
