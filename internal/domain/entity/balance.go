package entity

import "github.com/shopspring/decimal"

// Balance is a user's statement history together with the balance derived from it
type Balance struct {
	Statement []Statement     `json:"statement"`
	Balance   decimal.Decimal `json:"balance"`
}

// ComputeBalance replays statements in order: deposits add, withdrawals subtract.
// An empty history yields zero.
func ComputeBalance(statements []Statement) decimal.Decimal {
	balance := decimal.Zero
	for _, s := range statements {
		balance = balance.Add(s.SignedAmount())
	}
	return balance
}
