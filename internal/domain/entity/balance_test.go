package entity

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dep(amount string) Statement {
	return Statement{Type: OperationDeposit, Amount: decimal.RequireFromString(amount)}
}

func wd(amount string) Statement {
	return Statement{Type: OperationWithdraw, Amount: decimal.RequireFromString(amount)}
}

func TestComputeBalance(t *testing.T) {
	tests := []struct {
		name       string
		statements []Statement
		want       string
	}{
		{
			name: "nil history",
			want: "0",
		},
		{
			name:       "empty history",
			statements: []Statement{},
			want:       "0",
		},
		{
			name:       "single deposit",
			statements: []Statement{dep("100")},
			want:       "100",
		},
		{
			name:       "deposit then partial withdraw",
			statements: []Statement{dep("100"), wd("50")},
			want:       "50",
		},
		{
			name:       "withdraw whole balance",
			statements: []Statement{dep("100"), wd("100")},
			want:       "0",
		},
		{
			name:       "fractional amounts keep precision",
			statements: []Statement{dep("0.1"), dep("0.2"), wd("0.3")},
			want:       "0",
		},
		{
			name:       "large amounts",
			statements: []Statement{dep("999999999999.99999999"), dep("0.00000001")},
			want:       "1000000000000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeBalance(tt.statements)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestComputeBalance_EqualsDepositsMinusWithdrawals(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		var statements []Statement
		deposits, withdrawals := decimal.Zero, decimal.Zero

		for i := 0; i < rng.Intn(30); i++ {
			amount := decimal.New(rng.Int63n(1_000_000)+1, -2)
			if rng.Intn(2) == 0 {
				statements = append(statements, Statement{Type: OperationDeposit, Amount: amount})
				deposits = deposits.Add(amount)
			} else {
				statements = append(statements, Statement{Type: OperationWithdraw, Amount: amount})
				withdrawals = withdrawals.Add(amount)
			}
		}

		want := deposits.Sub(withdrawals)
		assert.True(t, want.Equal(ComputeBalance(statements)))

		rng.Shuffle(len(statements), func(i, j int) {
			statements[i], statements[j] = statements[j], statements[i]
		})
		assert.True(t, want.Equal(ComputeBalance(statements)), "balance must not depend on order")
	}
}
