package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OperationType is the kind of a statement
type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
)

// Valid reports whether t is one of the recognized operation types
func (t OperationType) Valid() bool {
	return t == OperationDeposit || t == OperationWithdraw
}

// Statement is a single immutable ledger entry owned by a user.
// ID and CreatedAt are assigned by the repository on append.
type Statement struct {
	ID          string          `json:"id"`
	UserID      string          `json:"user_id"`
	Type        OperationType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Amounts must fit a NUMERIC(20,8) column.
const (
	MaxAmountScale         = 8
	MaxAmountIntegerDigits = 12
)

// NewStatement builds an unsaved statement, rejecting unknown operation types
// and amounts that are non-positive or do not fit MaxAmountScale and
// MaxAmountIntegerDigits. Trailing zeros past the scale are dropped.
func NewStatement(userID string, opType OperationType, amount decimal.Decimal, description string) (*Statement, error) {
	if !opType.Valid() {
		return nil, fmt.Errorf("%w: unknown operation type %q", ErrInvalidEntry, opType)
	}

	amount, err := boundAmount(amount)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive, got %s", ErrInvalidEntry, amount.String())
	}

	return &Statement{
		UserID:      userID,
		Type:        opType,
		Amount:      amount,
		Description: description,
	}, nil
}

// boundAmount must run before anything formats or rescales the amount.
func boundAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	exp := int(amount.Exponent())
	digits := amount.NumDigits()

	if exp < -MaxAmountScale {
		// the coefficient can only carry as many trailing zeros as it has digits
		if digits+exp <= -MaxAmountScale {
			return decimal.Decimal{}, fmt.Errorf("%w: amount has more than %d decimal places", ErrInvalidEntry, MaxAmountScale)
		}
		truncated := amount.Truncate(MaxAmountScale)
		if !truncated.Equal(amount) {
			return decimal.Decimal{}, fmt.Errorf("%w: amount has more than %d decimal places", ErrInvalidEntry, MaxAmountScale)
		}
		amount = truncated
		exp = int(amount.Exponent())
		digits = amount.NumDigits()
	}

	if digits+exp > MaxAmountIntegerDigits {
		return decimal.Decimal{}, fmt.Errorf("%w: amount has more than %d integer digits", ErrInvalidEntry, MaxAmountIntegerDigits)
	}
	return amount, nil
}

// SignedAmount is the statement's effect on the balance
func (s Statement) SignedAmount() decimal.Decimal {
	if s.Type == OperationWithdraw {
		return s.Amount.Neg()
	}
	return s.Amount
}
