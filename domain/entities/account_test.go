package entities

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccount_Debit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		balance     uint64
		amount      uint64
		wantBalance uint64
		wantErr     error
	}{
		{name: "exact balance", balance: 100, amount: 100, wantBalance: 0},
		{name: "partial", balance: 250, amount: 100, wantBalance: 150},
		{name: "insufficient", balance: 99, amount: 100, wantBalance: 99, wantErr: ErrInsufficientFunds},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			account := &Account{Identity: "bob", Balance: tt.balance}
			err := account.Debit(tt.amount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantBalance, account.Balance)
		})
	}
}

func TestAccount_Credit(t *testing.T) {
	t.Parallel()

	account := &Account{Identity: "bob", Balance: 10}
	assert.NoError(t, account.Credit(5))
	assert.Equal(t, uint64(15), account.Balance)

	full := &Account{Identity: "carol", Balance: math.MaxUint64}
	assert.ErrorIs(t, full.Credit(1), ErrOverflow)
	assert.Equal(t, uint64(math.MaxUint64), full.Balance)
}

func TestBalanceHistory_Direction(t *testing.T) {
	t.Parallel()

	credit := &BalanceHistory{BalanceBefore: 100, BalanceAfter: 400}
	assert.True(t, credit.IsPositiveChange())
	assert.Equal(t, uint64(300), credit.Magnitude())

	debit := &BalanceHistory{BalanceBefore: 400, BalanceAfter: 300}
	assert.True(t, debit.IsNegativeChange())
	assert.Equal(t, uint64(100), debit.Magnitude())
}
