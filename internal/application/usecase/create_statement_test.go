package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finstatements.com/internal/domain/entity"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func deposit(userID, a string) CreateStatementRequest {
	return CreateStatementRequest{UserID: userID, Type: entity.OperationDeposit, Amount: amount(a), Description: "Deposit"}
}

func withdraw(userID, a string) CreateStatementRequest {
	return CreateStatementRequest{UserID: userID, Type: entity.OperationWithdraw, Amount: amount(a), Description: "Withdraw"}
}

func TestCreateStatementUseCase_Scenarios(t *testing.T) {
	ctx := context.Background()
	store := &plainStore{}
	publisher := &mockPublisher{}
	create := NewCreateStatementUseCase(knownUsers("U"), store, publisher, testLogger())
	balance := NewGetBalanceUseCase(knownUsers("U"), store)

	// deposit 100
	first, err := create.Execute(ctx, deposit("U", "100"))
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.True(t, first.Amount.Equal(amount("100")))
	assert.Equal(t, entity.OperationDeposit, first.Type)

	// withdraw 150 over a balance of 100
	_, err = create.Execute(ctx, withdraw("U", "150"))
	assert.ErrorIs(t, err, entity.ErrInsufficientFunds)
	got, err := balance.Execute(ctx, "U")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(amount("100")))
	assert.Len(t, got.Statement, 1)

	// withdraw 50
	_, err = create.Execute(ctx, withdraw("U", "50"))
	require.NoError(t, err)
	got, err = balance.Execute(ctx, "U")
	require.NoError(t, err)
	assert.True(t, got.Balance.Equal(amount("50")))
	assert.Len(t, got.Statement, 2)

	assert.Len(t, publisher.published, 2)
	assert.Equal(t, first.ID, publisher.published[0].StatementID)
}

func TestCreateStatementUseCase_Execute(t *testing.T) {
	tests := []struct {
		name       string
		history    []entity.Statement
		req        CreateStatementRequest
		existsErr  error
		listErr    error
		appendErr  error
		wantErr    error
		wantAppend bool
	}{
		{
			name:       "deposit",
			req:        deposit("U", "10"),
			wantAppend: true,
		},
		{
			name:       "withdraw equal to balance",
			history:    []entity.Statement{{UserID: "U", Type: entity.OperationDeposit, Amount: amount("100")}},
			req:        withdraw("U", "100"),
			wantAppend: true,
		},
		{
			name:    "withdraw one cent over balance",
			history: []entity.Statement{{UserID: "U", Type: entity.OperationDeposit, Amount: amount("100")}},
			req:     withdraw("U", "100.01"),
			wantErr: entity.ErrInsufficientFunds,
		},
		{
			name:    "withdraw with no history",
			req:     withdraw("U", "1"),
			wantErr: entity.ErrInsufficientFunds,
		},
		{
			name:    "unknown user deposit",
			req:     deposit("ghost", "10"),
			wantErr: entity.ErrUserNotFound,
		},
		{
			name:    "unknown user withdraw",
			req:     withdraw("ghost", "10"),
			wantErr: entity.ErrUserNotFound,
		},
		{
			name:    "unknown user with invalid amount",
			req:     deposit("ghost", "0"),
			wantErr: entity.ErrUserNotFound,
		},
		{
			name:    "empty user id",
			req:     deposit("", "10"),
			wantErr: entity.ErrUserNotFound,
		},
		{
			name:    "zero amount",
			req:     deposit("U", "0"),
			wantErr: entity.ErrInvalidEntry,
		},
		{
			name:    "negative amount",
			req:     withdraw("U", "-3"),
			wantErr: entity.ErrInvalidEntry,
		},
		{
			name:    "unknown type",
			req:     CreateStatementRequest{UserID: "U", Type: "transfer", Amount: amount("1")},
			wantErr: entity.ErrInvalidEntry,
		},
		{
			name:      "user directory failure",
			req:       deposit("U", "10"),
			existsErr: entity.ErrStoreUnavailable,
			wantErr:   entity.ErrStoreUnavailable,
		},
		{
			name:    "history load failure",
			req:     withdraw("U", "10"),
			listErr: entity.ErrStoreUnavailable,
			wantErr: entity.ErrStoreUnavailable,
		},
		{
			name:       "append failure",
			req:        deposit("U", "10"),
			appendErr:  entity.ErrStoreUnavailable,
			wantErr:    entity.ErrStoreUnavailable,
			wantAppend: true,
		},
		{
			name:       "store rejects concurrent overdraw",
			history:    []entity.Statement{{UserID: "U", Type: entity.OperationDeposit, Amount: amount("10")}},
			req:        withdraw("U", "10"),
			appendErr:  entity.ErrInsufficientFunds,
			wantErr:    entity.ErrInsufficientFunds,
			wantAppend: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := knownUsers("U")
			if tt.existsErr != nil {
				users = &mockUserDirectory{
					existsFunc: func(context.Context, string) (bool, error) { return false, tt.existsErr },
				}
			}

			appended := false
			listed := false
			repo := &mockStatementRepository{
				listByUserFunc: func(context.Context, string) ([]entity.Statement, error) {
					listed = true
					return tt.history, tt.listErr
				},
				appendFunc: func(_ context.Context, s entity.Statement) (entity.Statement, error) {
					appended = true
					if tt.appendErr != nil {
						return entity.Statement{}, tt.appendErr
					}
					s.ID = "new-id"
					s.CreatedAt = time.Now()
					return s, nil
				},
			}

			uc := NewCreateStatementUseCase(users, repo, &mockPublisher{}, testLogger())
			got, err := uc.Execute(context.Background(), tt.req)

			assert.Equal(t, tt.wantAppend, appended, "append called")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
				if errors.Is(tt.wantErr, entity.ErrInvalidEntry) || errors.Is(tt.wantErr, entity.ErrUserNotFound) {
					assert.False(t, listed, "store must not be read")
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, "new-id", got.ID)
			assert.Equal(t, tt.req.Type, got.Type)
			assert.True(t, tt.req.Amount.Equal(got.Amount))
			assert.Equal(t, tt.req.Description, got.Description)
		})
	}
}

func TestCreateStatementUseCase_PublishFailureKeepsStatement(t *testing.T) {
	store := &plainStore{}
	uc := NewCreateStatementUseCase(knownUsers("U"), store, &mockPublisher{err: errors.New("broker down")}, testLogger())

	got, err := uc.Execute(context.Background(), deposit("U", "10"))
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, 1, store.count())
}

func TestCreateStatementUseCase_SlowPublisherDoesNotHoldUserLock(t *testing.T) {
	const writers = 4
	store := &plainStore{}
	publisher := newBlockingPublisher()
	uc := NewCreateStatementUseCase(knownUsers("U"), store, publisher, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), deposit("U", "1"))
			assert.NoError(t, err)
		}()
	}

	// every writer reaches the publisher while the others are still publishing
	timeout := time.After(2 * time.Second)
	for i := 0; i < writers; i++ {
		select {
		case <-publisher.started:
		case <-timeout:
			close(publisher.release)
			wg.Wait()
			t.Fatalf("only %d of %d writers reached the publisher concurrently", i, writers)
		}
	}
	assert.Equal(t, writers, store.count())
	assert.Zero(t, uc.locks.size(), "locks must be released before publishing")

	close(publisher.release)
	wg.Wait()
}

func TestCreateStatementUseCase_ConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	store := &plainStore{listDelay: time.Millisecond}
	uc := NewCreateStatementUseCase(knownUsers("U", "V"), store, &mockPublisher{}, testLogger())

	_, err := uc.Execute(ctx, deposit("U", "100"))
	require.NoError(t, err)
	_, err = uc.Execute(ctx, deposit("V", "100"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	accepted := map[string]int{}
	for i := 0; i < 30; i++ {
		for _, user := range []string{"U", "V"} {
			wg.Add(1)
			go func(user string) {
				defer wg.Done()
				_, err := uc.Execute(ctx, withdraw(user, "25"))
				if err == nil {
					mu.Lock()
					accepted[user]++
					mu.Unlock()
					return
				}
				assert.ErrorIs(t, err, entity.ErrInsufficientFunds)
			}(user)
		}
	}
	wg.Wait()

	assert.Equal(t, 4, accepted["U"])
	assert.Equal(t, 4, accepted["V"])

	balance := NewGetBalanceUseCase(knownUsers("U", "V"), store)
	for _, user := range []string{"U", "V"} {
		got, err := balance.Execute(ctx, user)
		require.NoError(t, err)
		assert.True(t, got.Balance.IsZero(), "user %s balance %s", user, got.Balance)
	}
	assert.Zero(t, uc.locks.size(), "locks must be released")
}
