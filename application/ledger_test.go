package application

import (
	"context"
	"errors"
	"testing"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
	"lottoledger/domain/testhelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeUnitOfWork serves mock repositories and counts transaction calls
type fakeUnitOfWork struct {
	registryRepo   *testhelpers.MockRegistryRepository
	lotteryRepo    *testhelpers.MockLotteryRepository
	ticketRepo     *testhelpers.MockTicketRepository
	settlementRepo *testhelpers.MockSettlementRepository
	accountRepo    *testhelpers.MockAccountRepository
	historyRepo    *testhelpers.MockBalanceHistoryRepository
	publisher      *testhelpers.MockEventPublisher

	beginErr  error
	commitErr error
	begun     int
	committed int
	rolled    int
}

func newFakeUnitOfWork() *fakeUnitOfWork {
	return &fakeUnitOfWork{
		registryRepo:   new(testhelpers.MockRegistryRepository),
		lotteryRepo:    new(testhelpers.MockLotteryRepository),
		ticketRepo:     new(testhelpers.MockTicketRepository),
		settlementRepo: new(testhelpers.MockSettlementRepository),
		accountRepo:    new(testhelpers.MockAccountRepository),
		historyRepo:    new(testhelpers.MockBalanceHistoryRepository),
		publisher:      new(testhelpers.MockEventPublisher),
	}
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	u.begun++
	return u.beginErr
}

func (u *fakeUnitOfWork) Commit() error {
	if u.commitErr != nil {
		return u.commitErr
	}
	u.committed++
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	u.rolled++
	return nil
}

func (u *fakeUnitOfWork) RegistryRepository() interfaces.RegistryRepository { return u.registryRepo }
func (u *fakeUnitOfWork) LotteryRepository() interfaces.LotteryRepository   { return u.lotteryRepo }
func (u *fakeUnitOfWork) TicketRepository() interfaces.TicketRepository     { return u.ticketRepo }
func (u *fakeUnitOfWork) SettlementRepository() interfaces.SettlementRepository {
	return u.settlementRepo
}
func (u *fakeUnitOfWork) AccountRepository() interfaces.AccountRepository { return u.accountRepo }
func (u *fakeUnitOfWork) BalanceHistoryRepository() interfaces.BalanceHistoryRepository {
	return u.historyRepo
}
func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher { return u.publisher }

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) Create() UnitOfWork { return f.uow }

func newTestLedger(uow *fakeUnitOfWork) *Ledger {
	return NewLedger(&fakeFactory{uow: uow}, new(testhelpers.MockRandomnessSource))
}

func TestLedger_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	registry := &entities.Registry{}
	uow.registryRepo.On("Create", ctx).Return(registry, nil)

	got, err := newTestLedger(uow).InitRegistry(ctx)
	require.NoError(t, err)

	assert.Same(t, registry, got)
	assert.Equal(t, 1, uow.begun)
	assert.Equal(t, 1, uow.committed)
	// the deferred rollback runs after commit and is a no-op on a closed transaction
	assert.Equal(t, 1, uow.rolled)
}

func TestLedger_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	uow.registryRepo.On("Create", ctx).Return(nil, entities.ErrAlreadyInitialized)

	_, err := newTestLedger(uow).InitRegistry(ctx)
	require.ErrorIs(t, err, entities.ErrAlreadyInitialized)
	assert.False(t, entities.IsRetryable(err))

	assert.Equal(t, 0, uow.committed)
	assert.Equal(t, 1, uow.rolled)
}

func TestLedger_ValidationFailsBeforeAnyWrite(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()

	_, err := newTestLedger(uow).CreateLottery(ctx, "alice", 0)
	require.ErrorIs(t, err, entities.ErrInvalidTicketPrice)

	uow.registryRepo.AssertNotCalled(t, "GetForUpdate", mock.Anything)
	assert.Equal(t, 0, uow.committed)
}

func TestLedger_BeginFailure(t *testing.T) {
	uow := newFakeUnitOfWork()
	uow.beginErr = entities.ErrStoreConflict

	_, err := newTestLedger(uow).GetRegistry(context.Background())
	require.ErrorIs(t, err, entities.ErrStoreConflict)
	assert.True(t, entities.IsRetryable(err))
	assert.Equal(t, 0, uow.rolled)
}

func TestLedger_CommitFailure(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	uow.commitErr = errors.New("connection reset")
	uow.registryRepo.On("Create", ctx).Return(&entities.Registry{}, nil)

	_, err := newTestLedger(uow).InitRegistry(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to commit init_registry")
	assert.Equal(t, "Internal", entities.CodeOf(err))
}

func TestLedger_GetLotteryIncludesSettlement(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()

	winner := uint64(1)
	settled := &entities.Lottery{ID: 4, Authority: "alice", TicketPrice: 100, TicketCount: 3,
		State: entities.LotteryStateSettled, WinnerTicketIndex: &winner}
	settlement := &entities.Settlement{LotteryID: 4, TicketIndex: 1, Claimant: "bob", Amount: 300}
	uow.lotteryRepo.On("GetByID", ctx, uint64(4)).Return(settled, nil)
	uow.settlementRepo.On("GetByLotteryID", ctx, uint64(4)).Return(settlement, nil)

	view, err := newTestLedger(uow).GetLottery(ctx, 4)
	require.NoError(t, err)
	assert.Same(t, settled, view.Lottery)
	assert.Same(t, settlement, view.Settlement)
}

func TestLedger_GetLotteryNotFound(t *testing.T) {
	ctx := context.Background()
	uow := newFakeUnitOfWork()
	uow.lotteryRepo.On("GetByID", ctx, uint64(9)).Return(nil, nil)

	_, err := newTestLedger(uow).GetLottery(ctx, 9)
	assert.ErrorIs(t, err, entities.ErrLotteryNotFound)
}
