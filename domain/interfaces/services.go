package interfaces

import (
	"context"

	"lottoledger/domain/entities"
)

// LotteryService defines the ledger operations
type LotteryService interface {
	// InitRegistry creates the registry singleton
	InitRegistry(ctx context.Context) (*entities.Registry, error)

	// CreateLottery opens a lottery owned by authority and returns it
	CreateLottery(ctx context.Context, authority entities.Identity, ticketPrice uint64) (*entities.Lottery, error)

	// BuyTicket charges buyer and records the next ticket of the lottery
	BuyTicket(ctx context.Context, lotteryID uint64, buyer entities.Identity, payment uint64) (*entities.Ticket, error)

	// PickWinner draws the winning ticket; only the lottery authority may call it
	PickWinner(ctx context.Context, lotteryID uint64, caller entities.Identity) (*entities.Lottery, error)

	// ClaimPrize pays the pot to the buyer of the winning ticket
	ClaimPrize(ctx context.Context, lotteryID, ticketIndex uint64, claimant entities.Identity) (*entities.Settlement, error)

	GetRegistry(ctx context.Context) (*entities.Registry, error)
	GetLottery(ctx context.Context, lotteryID uint64) (*entities.Lottery, error)
	ListLotteries(ctx context.Context, afterID *uint64, limit int) ([]*entities.Lottery, error)
	GetTicket(ctx context.Context, lotteryID, ticketIndex uint64) (*entities.Ticket, error)
	ListTickets(ctx context.Context, lotteryID uint64, afterIndex *uint64, limit int) ([]*entities.Ticket, error)
	GetSettlement(ctx context.Context, lotteryID uint64) (*entities.Settlement, error)
}

// FundsTransfer moves value between accounts and lottery pots
type FundsTransfer interface {
	// Charge debits amount from the account of from as payment for a ticket
	Charge(ctx context.Context, from entities.Identity, amount uint64, lotteryID uint64) (*entities.BalanceHistory, error)

	// Transfer pays amount out of the lottery pot into the account of to
	Transfer(ctx context.Context, pot *entities.Lottery, to entities.Identity, amount uint64) (*entities.BalanceHistory, error)
}

// FundsService extends FundsTransfer with account administration
type FundsService interface {
	FundsTransfer

	// OpenAccount creates an account with an initial balance
	OpenAccount(ctx context.Context, identity entities.Identity, initialBalance uint64) (*entities.Account, error)

	// Deposit credits an existing account
	Deposit(ctx context.Context, identity entities.Identity, amount uint64) (*entities.Account, error)

	// GetAccount returns an account or entities.ErrAccountNotFound
	GetAccount(ctx context.Context, identity entities.Identity) (*entities.Account, error)

	// GetHistory returns the latest balance changes of an account
	GetHistory(ctx context.Context, identity entities.Identity, limit int) ([]*entities.BalanceHistory, error)
}

// RandomnessSource supplies the seed for a lottery draw
type RandomnessSource interface {
	// Name identifies the source in draw records
	Name() string

	// SeedFor returns the draw seed for lotteryID.
	// Failures should wrap entities.ErrRandomnessUnavailable.
	SeedFor(ctx context.Context, lotteryID uint64) (entities.Seed, error)
}
