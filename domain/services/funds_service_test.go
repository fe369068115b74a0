package services

import (
	"context"
	"math"
	"testing"

	"lottoledger/domain/entities"
	"lottoledger/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fundsMocks struct {
	accountRepo        *testhelpers.MockAccountRepository
	balanceHistoryRepo *testhelpers.MockBalanceHistoryRepository
	eventPublisher     *testhelpers.MockEventPublisher
}

func newFundsMocks() *fundsMocks {
	return &fundsMocks{
		accountRepo:        new(testhelpers.MockAccountRepository),
		balanceHistoryRepo: new(testhelpers.MockBalanceHistoryRepository),
		eventPublisher:     new(testhelpers.MockEventPublisher),
	}
}

func (m *fundsMocks) service() *fundsService {
	return NewFundsService(m.accountRepo, m.balanceHistoryRepo, m.eventPublisher).(*fundsService)
}

func (m *fundsMocks) allowHistory() {
	m.balanceHistoryRepo.On("Record", mock.Anything, mock.Anything).Return(nil)
	m.eventPublisher.On("Publish", mock.Anything).Return(nil)
}

func TestFundsService_Charge(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		account     *entities.Account
		amount      uint64
		wantBalance uint64
		wantErr     error
	}{
		{name: "debits the ticket price", account: &entities.Account{Identity: TestBuyer1, Balance: 250}, amount: 100, wantBalance: 150},
		{name: "exact balance", account: &entities.Account{Identity: TestBuyer1, Balance: 100}, amount: 100, wantBalance: 0},
		{name: "insufficient funds", account: &entities.Account{Identity: TestBuyer1, Balance: 99}, amount: 100, wantErr: entities.ErrInsufficientFunds},
		{name: "no account", account: nil, amount: 100, wantErr: entities.ErrAccountNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := newFundsMocks()
			if tt.account == nil {
				m.accountRepo.On("GetByIdentityForUpdate", mock.Anything, TestBuyer1).Return(nil, nil)
			} else {
				m.accountRepo.On("GetByIdentityForUpdate", mock.Anything, TestBuyer1).Return(tt.account, nil)
			}
			if tt.wantErr == nil {
				m.accountRepo.On("UpdateBalance", mock.Anything, TestBuyer1, tt.wantBalance).Return(nil)
				m.allowHistory()
			}

			history, err := m.service().Charge(context.Background(), TestBuyer1, tt.amount, 0)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				m.accountRepo.AssertNotCalled(t, "UpdateBalance", mock.Anything, mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entities.TransactionTypeLotteryTicket, history.TransactionType)
			assert.Equal(t, tt.amount, history.Magnitude())
			assert.True(t, history.IsNegativeChange())
			m.accountRepo.AssertExpectations(t)
			m.balanceHistoryRepo.AssertExpectations(t)
		})
	}
}

func TestFundsService_Transfer(t *testing.T) {
	t.Parallel()

	pot := newDrawnLottery(0, 100, 3, 1)

	t.Run("credits the claimant", func(t *testing.T) {
		t.Parallel()

		m := newFundsMocks()
		m.accountRepo.On("GetByIdentityForUpdate", mock.Anything, TestBuyer1).Return(&entities.Account{Identity: TestBuyer1, Balance: 0}, nil)
		m.accountRepo.On("UpdateBalance", mock.Anything, TestBuyer1, uint64(300)).Return(nil)
		m.balanceHistoryRepo.On("Record", mock.Anything, mock.MatchedBy(func(h *entities.BalanceHistory) bool {
			return h.TransactionType == entities.TransactionTypeLotteryPrize && h.TransactionMetadata["lottery_id"] == "0" && h.TransactionMetadata["ticket_index"] == "1"
		})).Return(nil)
		m.eventPublisher.On("Publish", mock.Anything).Return(nil)

		history, err := m.service().Transfer(context.Background(), pot, TestBuyer1, 300)
		require.NoError(t, err)
		assert.Equal(t, uint64(300), history.BalanceAfter)
		m.balanceHistoryRepo.AssertExpectations(t)
	})

	t.Run("identifiers above 2^53 keep every digit", func(t *testing.T) {
		t.Parallel()

		large := newDrawnLottery(math.MaxUint64-1, 100, 3, 1<<53+1)
		m := newFundsMocks()
		m.accountRepo.On("GetByIdentityForUpdate", mock.Anything, TestBuyer1).Return(&entities.Account{Identity: TestBuyer1}, nil)
		m.accountRepo.On("UpdateBalance", mock.Anything, TestBuyer1, uint64(300)).Return(nil)
		m.allowHistory()

		history, err := m.service().Transfer(context.Background(), large, TestBuyer1, 300)
		require.NoError(t, err)
		assert.Equal(t, "18446744073709551614", history.TransactionMetadata["lottery_id"])
		assert.Equal(t, "9007199254740993", history.TransactionMetadata["ticket_index"])
	})

	t.Run("amount exceeds pot", func(t *testing.T) {
		t.Parallel()

		m := newFundsMocks()
		_, err := m.service().Transfer(context.Background(), pot, TestBuyer1, 301)
		assert.ErrorIs(t, err, entities.ErrInsufficientFunds)
		m.accountRepo.AssertNotCalled(t, "GetByIdentityForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("destination without account", func(t *testing.T) {
		t.Parallel()

		m := newFundsMocks()
		m.accountRepo.On("GetByIdentityForUpdate", mock.Anything, TestOutsider).Return(nil, nil)

		_, err := m.service().Transfer(context.Background(), pot, TestOutsider, 300)
		assert.ErrorIs(t, err, entities.ErrInvalidDestination)
		assert.True(t, entities.IsRetryable(err))
	})
}

func TestFundsService_OpenAccountAndDeposit(t *testing.T) {
	t.Parallel()

	m := newFundsMocks()
	m.accountRepo.On("Create", mock.Anything, TestBuyer1, uint64(500)).Return(&entities.Account{Identity: TestBuyer1, Balance: 500}, nil)
	m.accountRepo.On("GetByIdentityForUpdate", mock.Anything, TestBuyer1).Return(&entities.Account{Identity: TestBuyer1, Balance: 500}, nil)
	m.accountRepo.On("UpdateBalance", mock.Anything, TestBuyer1, uint64(750)).Return(nil)
	m.accountRepo.On("GetByIdentityForUpdate", mock.Anything, TestOutsider).Return(nil, nil)
	m.allowHistory()

	service := m.service()
	ctx := context.Background()

	account, err := service.OpenAccount(ctx, TestBuyer1, 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), account.Balance)

	account, err = service.Deposit(ctx, TestBuyer1, 250)
	require.NoError(t, err)
	assert.Equal(t, uint64(750), account.Balance)

	_, err = service.Deposit(ctx, TestBuyer1, 0)
	assert.ErrorIs(t, err, entities.ErrInvalidAmount)

	_, err = service.Deposit(ctx, TestOutsider, 10)
	assert.ErrorIs(t, err, entities.ErrAccountNotFound)

	_, err = service.OpenAccount(ctx, "two words", 10)
	assert.ErrorIs(t, err, entities.ErrInvalidIdentity)

	m.balanceHistoryRepo.AssertNumberOfCalls(t, "Record", 2)
}

func TestFundsService_GetAccount(t *testing.T) {
	t.Parallel()

	m := newFundsMocks()
	m.accountRepo.On("GetByIdentity", mock.Anything, TestOutsider).Return(nil, nil)
	m.balanceHistoryRepo.On("GetByIdentity", mock.Anything, TestBuyer1, defaultHistoryLimit).Return([]*entities.BalanceHistory{}, nil)

	_, err := m.service().GetAccount(context.Background(), TestOutsider)
	assert.ErrorIs(t, err, entities.ErrAccountNotFound)

	history, err := m.service().GetHistory(context.Background(), TestBuyer1, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}
