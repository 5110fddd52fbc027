package repository

import (
	"errors"
	"fmt"

	"finstatements.com/internal/domain/entity"
)

var domainErrors = []error{
	entity.ErrUserNotFound,
	entity.ErrInsufficientFunds,
	entity.ErrStatementNotFound,
	entity.ErrDuplicateStatement,
	entity.ErrUserAlreadyExists,
}

// storeError passes domain rejections through and marks everything else as
// an infrastructure failure.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, domainErr := range domainErrors {
		if errors.Is(err, domainErr) {
			return err
		}
	}
	return fmt.Errorf("%w: %s: %w", entity.ErrStoreUnavailable, op, err)
}
