package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
	"finstatements.com/internal/infrastructure/logger"
)

// InMemoryStatements implements the StatementRepository port
type InMemoryStatements struct {
	mu     sync.RWMutex
	byUser map[string][]entity.Statement
	byID   map[string]struct{}
	logger logger.Logger
}

// NewInMemoryStatements creates a new in-memory statement store
func NewInMemoryStatements(logger logger.Logger) port.StatementRepository {
	return &InMemoryStatements{
		byUser: make(map[string][]entity.Statement),
		byID:   make(map[string]struct{}),
		logger: logger,
	}
}

// Append stores a statement at the end of the user's history
func (r *InMemoryStatements) Append(ctx context.Context, s entity.Statement) (entity.Statement, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if _, exists := r.byID[s.ID]; exists {
		return entity.Statement{}, fmt.Errorf("%w: %s", entity.ErrDuplicateStatement, s.ID)
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	history := r.byUser[s.UserID]
	if s.Type == entity.OperationWithdraw {
		balance := entity.ComputeBalance(history)
		if s.Amount.GreaterThan(balance) {
			r.logger.LogWarning(ctx, "Rejected withdrawal over balance",
				"user_id", s.UserID,
				"amount", s.Amount.String(),
				"balance", balance.String())
			return entity.Statement{}, entity.ErrInsufficientFunds
		}
	}

	r.byUser[s.UserID] = append(history, s)
	r.byID[s.ID] = struct{}{}

	r.logger.LogInfo(ctx, "Statement appended",
		"statement_id", s.ID,
		"user_id", s.UserID,
		"type", string(s.Type),
		"amount", s.Amount.String())

	return s, nil
}

// ListByUser returns a copy of the user's history in append order
func (r *InMemoryStatements) ListByUser(ctx context.Context, userID string) ([]entity.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := r.byUser[userID]
	out := make([]entity.Statement, len(history))
	copy(out, history)
	return out, nil
}

// GetByIDAndUser returns the statement only if userID owns it
func (r *InMemoryStatements) GetByIDAndUser(ctx context.Context, id, userID string) (*entity.Statement, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.byUser[userID] {
		if s.ID == id {
			found := s
			return &found, nil
		}
	}
	return nil, entity.ErrStatementNotFound
}
