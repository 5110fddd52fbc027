package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatementCreated is published after a statement has been appended
type StatementCreated struct {
	StatementID string          `json:"statement_id"`
	UserID      string          `json:"user_id"`
	Type        OperationType   `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	OccurredAt  time.Time       `json:"occurred_at"`
}

// NewStatementCreated builds the event for a stored statement
func NewStatementCreated(s Statement) StatementCreated {
	return StatementCreated{
		StatementID: s.ID,
		UserID:      s.UserID,
		Type:        s.Type,
		Amount:      s.Amount,
		Description: s.Description,
		OccurredAt:  s.CreatedAt,
	}
}
