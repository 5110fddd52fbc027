package usecase

import (
	"context"
	"fmt"

	"finstatements.com/internal/domain/entity"
	"finstatements.com/internal/domain/port"
)

func ensureUserExists(ctx context.Context, users port.UserDirectory, userID string) error {
	if userID == "" {
		return entity.ErrUserNotFound
	}

	exists, err := users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to resolve user: %w", err)
	}
	if !exists {
		return entity.ErrUserNotFound
	}
	return nil
}
