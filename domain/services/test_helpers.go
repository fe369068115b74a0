package services

import (
	"testing"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
	"lottoledger/domain/testhelpers"

	"github.com/stretchr/testify/mock"
)

// Test identities used across service tests
const (
	TestAuthority = entities.Identity("alice")
	TestBuyer1    = entities.Identity("bob")
	TestBuyer2    = entities.Identity("carol")
	TestOutsider  = entities.Identity("mallory")
)

// TestMocks aggregates all collaborator mocks of the lottery service
type TestMocks struct {
	RegistryRepo   *testhelpers.MockRegistryRepository
	LotteryRepo    *testhelpers.MockLotteryRepository
	TicketRepo     *testhelpers.MockTicketRepository
	SettlementRepo *testhelpers.MockSettlementRepository
	Funds          *testhelpers.MockFundsTransfer
	Randomness     *testhelpers.MockRandomnessSource
	EventPublisher *testhelpers.MockEventPublisher
}

// NewTestMocks creates a new set of mocks
func NewTestMocks() *TestMocks {
	return &TestMocks{
		RegistryRepo:   &testhelpers.MockRegistryRepository{},
		LotteryRepo:    &testhelpers.MockLotteryRepository{},
		TicketRepo:     &testhelpers.MockTicketRepository{},
		SettlementRepo: &testhelpers.MockSettlementRepository{},
		Funds:          &testhelpers.MockFundsTransfer{},
		Randomness:     &testhelpers.MockRandomnessSource{},
		EventPublisher: &testhelpers.MockEventPublisher{},
	}
}

// Service builds a lottery service wired to the mocks
func (m *TestMocks) Service() interfaces.LotteryService {
	return NewLotteryService(m.RegistryRepo, m.LotteryRepo, m.TicketRepo, m.SettlementRepo, m.Funds, m.Randomness, m.EventPublisher)
}

// AllowEvents accepts any published event
func (m *TestMocks) AllowEvents() {
	m.EventPublisher.On("Publish", mock.Anything).Return(nil)
}

// AssertAllExpectations verifies all mock expectations were met
func (m *TestMocks) AssertAllExpectations(t *testing.T) {
	m.RegistryRepo.AssertExpectations(t)
	m.LotteryRepo.AssertExpectations(t)
	m.TicketRepo.AssertExpectations(t)
	m.SettlementRepo.AssertExpectations(t)
	m.Funds.AssertExpectations(t)
	m.Randomness.AssertExpectations(t)
	m.EventPublisher.AssertExpectations(t)
}

// newOpenLottery returns an open lottery with count tickets sold at price
func newOpenLottery(id, price, count uint64) *entities.Lottery {
	return &entities.Lottery{
		ID:          id,
		Authority:   TestAuthority,
		TicketPrice: price,
		TicketCount: count,
		PrizePot:    price * count,
		State:       entities.LotteryStateOpen,
	}
}

// newDrawnLottery returns a drawn lottery whose winner is winnerIndex
func newDrawnLottery(id, price, count, winnerIndex uint64) *entities.Lottery {
	lottery := newOpenLottery(id, price, count)
	lottery.WinnerTicketIndex = &winnerIndex
	lottery.State = entities.LotteryStateDrawn
	return lottery
}
