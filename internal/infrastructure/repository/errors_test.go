package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"finstatements.com/internal/domain/entity"
)

func TestStoreError(t *testing.T) {
	assert.NoError(t, storeError("op", nil))

	domain := fmt.Errorf("%w: id", entity.ErrDuplicateStatement)
	assert.Same(t, domain, storeError("append", domain))

	err := storeError("list statements", errors.New("connection refused"))
	assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
	assert.Contains(t, err.Error(), "list statements")
	assert.Contains(t, err.Error(), "connection refused")
}
