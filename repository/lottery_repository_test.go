package repository

import (
	"context"
	"math"
	"testing"

	"lottoledger/domain/entities"
	"lottoledger/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryRepository_CreateOnce(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := newRegistryRepository(testDB.DB.Pool)
	ctx := context.Background()

	registry, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Nil(t, registry)

	registry, err = repo.Create(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), registry.NextLotteryID)

	_, err = repo.Create(ctx)
	assert.ErrorIs(t, err, entities.ErrAlreadyInitialized)

	registry.NextLotteryID = math.MaxUint64 - 1
	require.NoError(t, repo.Update(ctx, registry))

	stored, err := repo.GetForUpdate(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64-1), stored.NextLotteryID)
}

func TestLotteryRepository_RoundTrip(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := newLotteryRepository(testDB.DB.Pool)
	ctx := context.Background()

	t.Run("lottery not found", func(t *testing.T) {
		lottery, err := repo.GetByID(ctx, 404)
		require.NoError(t, err)
		assert.Nil(t, lottery)
	})

	t.Run("values above int64 survive", func(t *testing.T) {
		lottery := testutil.CreateTestLotteryWithPrice(math.MaxUint64, "alice", math.MaxUint64)
		require.NoError(t, repo.Create(ctx, lottery))

		stored, err := repo.GetByID(ctx, math.MaxUint64)
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, uint64(math.MaxUint64), stored.ID)
		assert.Equal(t, uint64(math.MaxUint64), stored.TicketPrice)
		assert.Equal(t, entities.LotteryStateOpen, stored.State)
		assert.Nil(t, stored.WinnerTicketIndex)
		assert.Nil(t, stored.DrawSeed)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		require.NoError(t, repo.Create(ctx, testutil.CreateTestLottery(1, "alice")))
		err := repo.Create(ctx, testutil.CreateTestLottery(1, "bob"))
		assert.ErrorIs(t, err, entities.ErrLotteryAlreadyRecorded)
	})

	t.Run("draw is persisted", func(t *testing.T) {
		lottery := testutil.CreateTestLottery(2, "alice")
		require.NoError(t, repo.Create(ctx, lottery))

		locked, err := repo.GetByIDForUpdate(ctx, 2)
		require.NoError(t, err)
		_, err = locked.SellTicket(100)
		require.NoError(t, err)
		require.NoError(t, locked.RecordDraw(0, entities.Seed{Value: math.MaxUint64, Proof: []byte{0xde, 0xad}, Source: "bls"}))
		require.NoError(t, repo.Update(ctx, locked))

		stored, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, entities.LotteryStateDrawn, stored.State)
		require.NotNil(t, stored.WinnerTicketIndex)
		assert.Equal(t, uint64(0), *stored.WinnerTicketIndex)
		assert.Equal(t, uint64(math.MaxUint64), *stored.DrawSeed)
		assert.Equal(t, []byte{0xde, 0xad}, stored.DrawProof)
		assert.Equal(t, "bls", *stored.DrawSource)
		assert.Equal(t, uint64(100), stored.PrizePot)
		assert.NotNil(t, stored.DrawnAt)
	})

	t.Run("schema rejects a settled lottery with a pot", func(t *testing.T) {
		lottery := testutil.CreateTestLottery(3, "alice")
		require.NoError(t, repo.Create(ctx, lottery))

		winner := uint64(0)
		lottery.State = entities.LotteryStateSettled
		lottery.WinnerTicketIndex = &winner
		lottery.PrizePot = 5
		assert.Error(t, repo.Update(ctx, lottery))
	})

	t.Run("list pages by id", func(t *testing.T) {
		first, err := repo.List(ctx, nil, 2)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, uint64(1), first[0].ID)
		assert.Equal(t, uint64(2), first[1].ID)

		after := first[1].ID
		rest, err := repo.List(ctx, &after, 10)
		require.NoError(t, err)
		require.Len(t, rest, 2)
		assert.Equal(t, uint64(3), rest[0].ID)
		assert.Equal(t, uint64(math.MaxUint64), rest[1].ID)
	})
}

func TestTicketRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	lotteryRepo := newLotteryRepository(testDB.DB.Pool)
	ticketRepo := newTicketRepository(testDB.DB.Pool)
	ctx := context.Background()

	require.NoError(t, lotteryRepo.Create(ctx, testutil.CreateTestLottery(0, "alice")))
	for i := uint64(0); i < 5; i++ {
		require.NoError(t, ticketRepo.Create(ctx, testutil.CreateTestTicket(0, i, "bob")))
	}

	t.Run("duplicate index is a conflict", func(t *testing.T) {
		err := ticketRepo.Create(ctx, testutil.CreateTestTicket(0, 3, "carol"))
		assert.ErrorIs(t, err, entities.ErrStoreConflict)
	})

	t.Run("keyset pagination", func(t *testing.T) {
		page, err := ticketRepo.ListByLottery(ctx, 0, nil, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, uint64(0), page[0].TicketIndex)
		assert.Equal(t, uint64(1), page[1].TicketIndex)

		after := uint64(1)
		page, err = ticketRepo.ListByLottery(ctx, 0, &after, 10)
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, uint64(2), page[0].TicketIndex)
	})

	t.Run("claim only once", func(t *testing.T) {
		require.NoError(t, ticketRepo.MarkClaimed(ctx, 0, 4))
		assert.ErrorIs(t, ticketRepo.MarkClaimed(ctx, 0, 4), entities.ErrAlreadyClaimed)

		ticket, err := ticketRepo.GetForUpdate(ctx, 0, 4)
		require.NoError(t, err)
		assert.True(t, ticket.Claimed)
	})

	t.Run("missing ticket", func(t *testing.T) {
		ticket, err := ticketRepo.Get(ctx, 0, 99)
		require.NoError(t, err)
		assert.Nil(t, ticket)
	})
}

func TestAccountAndHistoryRepositories(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	accountRepo := newAccountRepository(testDB.DB.Pool)
	historyRepo := newBalanceHistoryRepository(testDB.DB.Pool)
	ctx := context.Background()

	account, err := accountRepo.Create(ctx, "bob", 1000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), account.Balance)

	_, err = accountRepo.Create(ctx, "bob", 5)
	assert.ErrorIs(t, err, entities.ErrAccountAlreadyExists)

	require.NoError(t, accountRepo.UpdateBalance(ctx, "bob", 900))
	assert.ErrorIs(t, accountRepo.UpdateBalance(ctx, "nobody", 1), entities.ErrAccountNotFound)

	stored, err := accountRepo.GetByIdentityForUpdate(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, uint64(900), stored.Balance)

	missing, err := accountRepo.GetByIdentity(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)

	history := testutil.CreateTestBalanceHistory("bob", 1000, 900, entities.TransactionTypeLotteryTicket)
	require.NoError(t, historyRepo.Record(ctx, history))
	assert.NotZero(t, history.ID)

	var change int64
	err = testDB.DB.QueryRow(ctx, "SELECT change_amount::bigint FROM balance_history WHERE id = $1", history.ID).Scan(&change)
	require.NoError(t, err)
	assert.Equal(t, int64(-100), change)

	histories, err := historyRepo.GetByIdentity(ctx, "bob", 10)
	require.NoError(t, err)
	require.Len(t, histories, 1)
	assert.Equal(t, uint64(100), histories[0].Magnitude())
	assert.Equal(t, true, histories[0].TransactionMetadata["test"])
}

func TestSettlementRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	lotteryRepo := newLotteryRepository(testDB.DB.Pool)
	ticketRepo := newTicketRepository(testDB.DB.Pool)
	settlementRepo := newSettlementRepository(testDB.DB.Pool)
	ctx := context.Background()

	require.NoError(t, lotteryRepo.Create(ctx, testutil.CreateTestLottery(0, "alice")))
	require.NoError(t, ticketRepo.Create(ctx, testutil.CreateTestTicket(0, 0, "bob")))

	none, err := settlementRepo.GetByLotteryID(ctx, 0)
	require.NoError(t, err)
	assert.Nil(t, none)

	settlement := &entities.Settlement{LotteryID: 0, TicketIndex: 0, Claimant: "bob", Amount: 100}
	require.NoError(t, settlementRepo.Create(ctx, settlement))

	again := &entities.Settlement{LotteryID: 0, TicketIndex: 0, Claimant: "bob", Amount: 100}
	assert.ErrorIs(t, settlementRepo.Create(ctx, again), entities.ErrAlreadyClaimed)

	stored, err := settlementRepo.GetByLotteryID(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), stored.Amount)
	assert.Equal(t, entities.Identity("bob"), stored.Claimant)
	assert.Nil(t, stored.BalanceHistoryID)
}
