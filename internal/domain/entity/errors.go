package entity

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInvalidEntry       = errors.New("invalid statement")
	ErrStatementNotFound  = errors.New("statement not found")
	ErrDuplicateStatement = errors.New("statement already exists")

	// ErrStoreUnavailable wraps infrastructure failures so callers can tell
	// them apart from domain rejections.
	ErrStoreUnavailable = errors.New("store unavailable")

	ErrInvalidUser          = errors.New("invalid user")
	ErrUserAlreadyExists    = errors.New("user already exists")
	ErrIncorrectCredentials = errors.New("incorrect email or password")
)
