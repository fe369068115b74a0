package testhelpers

import (
	"context"

	"lottoledger/domain/entities"

	"github.com/stretchr/testify/mock"
)

// MockFundsTransfer is a mock implementation of FundsTransfer
type MockFundsTransfer struct {
	mock.Mock
}

func (m *MockFundsTransfer) Charge(ctx context.Context, from entities.Identity, amount uint64, lotteryID uint64) (*entities.BalanceHistory, error) {
	args := m.Called(ctx, from, amount, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BalanceHistory), args.Error(1)
}

func (m *MockFundsTransfer) Transfer(ctx context.Context, pot *entities.Lottery, to entities.Identity, amount uint64) (*entities.BalanceHistory, error) {
	args := m.Called(ctx, pot, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BalanceHistory), args.Error(1)
}

// MockRandomnessSource is a mock implementation of RandomnessSource
type MockRandomnessSource struct {
	mock.Mock
}

func (m *MockRandomnessSource) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockRandomnessSource) SeedFor(ctx context.Context, lotteryID uint64) (entities.Seed, error) {
	args := m.Called(ctx, lotteryID)
	return args.Get(0).(entities.Seed), args.Error(1)
}
