package application

import (
	"context"
	"fmt"
	"time"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
	"lottoledger/domain/services"
	"lottoledger/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// Operation names used in logs and metrics
const (
	OpInitRegistry  = "init_registry"
	OpCreateLottery = "create_lottery"
	OpBuyTicket     = "buy_ticket"
	OpPickWinner    = "pick_winner"
	OpClaimPrize    = "claim_prize"
	OpOpenAccount   = "open_account"
	OpDeposit       = "deposit"
	OpRead          = "read"
)

// Ledger runs every ledger operation in its own unit of work
type Ledger struct {
	uowFactory UnitOfWorkFactory
	randomness interfaces.RandomnessSource
	now        func() time.Time
}

// NewLedger creates a new ledger
func NewLedger(uowFactory UnitOfWorkFactory, randomness interfaces.RandomnessSource) *Ledger {
	return &Ledger{
		uowFactory: uowFactory,
		randomness: randomness,
		now:        time.Now,
	}
}

// boundServices bundles the domain services bound to one unit of work
type boundServices struct {
	lottery interfaces.LotteryService
	funds   interfaces.FundsService
}

// run begins a unit of work, calls fn and commits. Any error rolls back.
func (l *Ledger) run(ctx context.Context, operation string, fn func(boundServices) error) (err error) {
	start := l.now()
	defer func() {
		l.observe(operation, start, err)
	}()

	uow := l.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if rbErr := uow.Rollback(); rbErr != nil {
			log.WithError(rbErr).WithField("operation", operation).Error("Failed to roll back transaction")
		}
	}()

	funds := services.NewFundsService(
		uow.AccountRepository(),
		uow.BalanceHistoryRepository(),
		uow.EventBus(),
	)
	lottery := services.NewLotteryService(
		uow.RegistryRepository(),
		uow.LotteryRepository(),
		uow.TicketRepository(),
		uow.SettlementRepository(),
		funds,
		l.randomness,
		uow.EventBus(),
	)

	if err := fn(boundServices{lottery: lottery, funds: funds}); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s: %w", operation, err)
	}
	return nil
}

func (l *Ledger) observe(operation string, start time.Time, err error) {
	duration := l.now().Sub(start)
	code := ""
	if err != nil {
		code = entities.CodeOf(err)
		fields := log.Fields{
			"operation": operation,
			"code":      code,
			"kind":      entities.KindOf(err),
			"error":     err,
		}
		if entities.KindOf(err) == entities.KindUnknown {
			log.WithFields(fields).Error("Ledger operation failed")
		} else {
			log.WithFields(fields).Debug("Ledger operation rejected")
		}
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordOperation(operation, code, duration)
	}
}

// InitRegistry creates the registry singleton
func (l *Ledger) InitRegistry(ctx context.Context) (*entities.Registry, error) {
	var registry *entities.Registry
	err := l.run(ctx, OpInitRegistry, func(s boundServices) error {
		var err error
		registry, err = s.lottery.InitRegistry(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// CreateLottery opens a new lottery owned by authority
func (l *Ledger) CreateLottery(ctx context.Context, authority entities.Identity, ticketPrice uint64) (*entities.Lottery, error) {
	var lottery *entities.Lottery
	err := l.run(ctx, OpCreateLottery, func(s boundServices) error {
		var err error
		lottery, err = s.lottery.CreateLottery(ctx, authority, ticketPrice)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lottery, nil
}

// BuyTicket sells the next ticket of a lottery to buyer
func (l *Ledger) BuyTicket(ctx context.Context, lotteryID uint64, buyer entities.Identity, payment uint64) (*entities.Ticket, error) {
	var ticket *entities.Ticket
	err := l.run(ctx, OpBuyTicket, func(s boundServices) error {
		var err error
		ticket, err = s.lottery.BuyTicket(ctx, lotteryID, buyer, payment)
		return err
	})
	if err != nil {
		return nil, err
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordTicketSold()
	}
	return ticket, nil
}

// PickWinner draws the winning ticket of a lottery
func (l *Ledger) PickWinner(ctx context.Context, lotteryID uint64, caller entities.Identity) (*entities.Lottery, error) {
	var lottery *entities.Lottery
	err := l.run(ctx, OpPickWinner, func(s boundServices) error {
		var err error
		lottery, err = s.lottery.PickWinner(ctx, lotteryID, caller)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lottery, nil
}

// ClaimPrize pays the pot of a drawn lottery to the winning ticket's buyer
func (l *Ledger) ClaimPrize(ctx context.Context, lotteryID, ticketIndex uint64, claimant entities.Identity) (*entities.Settlement, error) {
	var settlement *entities.Settlement
	err := l.run(ctx, OpClaimPrize, func(s boundServices) error {
		var err error
		settlement, err = s.lottery.ClaimPrize(ctx, lotteryID, ticketIndex, claimant)
		return err
	})
	if err != nil {
		return nil, err
	}

	if metrics := observability.GetMetrics(); metrics != nil {
		metrics.RecordPrizePaid(settlement.Amount)
	}
	return settlement, nil
}

// OpenAccount creates a funded account
func (l *Ledger) OpenAccount(ctx context.Context, identity entities.Identity, initialBalance uint64) (*entities.Account, error) {
	var account *entities.Account
	err := l.run(ctx, OpOpenAccount, func(s boundServices) error {
		var err error
		account, err = s.funds.OpenAccount(ctx, identity, initialBalance)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// Deposit credits an existing account
func (l *Ledger) Deposit(ctx context.Context, identity entities.Identity, amount uint64) (*entities.Account, error) {
	var account *entities.Account
	err := l.run(ctx, OpDeposit, func(s boundServices) error {
		var err error
		account, err = s.funds.Deposit(ctx, identity, amount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// AccountView is an account with its latest balance changes
type AccountView struct {
	Account *entities.Account
	History []*entities.BalanceHistory
}

// GetAccount returns an account with up to historyLimit recent changes
func (l *Ledger) GetAccount(ctx context.Context, identity entities.Identity, historyLimit int) (*AccountView, error) {
	var view AccountView
	err := l.run(ctx, OpRead, func(s boundServices) error {
		var err error
		if view.Account, err = s.funds.GetAccount(ctx, identity); err != nil {
			return err
		}
		view.History, err = s.funds.GetHistory(ctx, identity, historyLimit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// GetRegistry returns the registry singleton
func (l *Ledger) GetRegistry(ctx context.Context) (*entities.Registry, error) {
	var registry *entities.Registry
	err := l.run(ctx, OpRead, func(s boundServices) error {
		var err error
		registry, err = s.lottery.GetRegistry(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// LotteryView is a lottery with its settlement, if any
type LotteryView struct {
	Lottery    *entities.Lottery
	Settlement *entities.Settlement
}

// GetLottery returns a lottery and, once settled, its settlement record
func (l *Ledger) GetLottery(ctx context.Context, lotteryID uint64) (*LotteryView, error) {
	var view LotteryView
	err := l.run(ctx, OpRead, func(s boundServices) error {
		var err error
		if view.Lottery, err = s.lottery.GetLottery(ctx, lotteryID); err != nil {
			return err
		}
		if view.Lottery.IsSettled() {
			view.Settlement, err = s.lottery.GetSettlement(ctx, lotteryID)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// ListLotteries pages through lotteries in id order
func (l *Ledger) ListLotteries(ctx context.Context, afterID *uint64, limit int) ([]*entities.Lottery, error) {
	var lotteries []*entities.Lottery
	err := l.run(ctx, OpRead, func(s boundServices) error {
		var err error
		lotteries, err = s.lottery.ListLotteries(ctx, afterID, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return lotteries, nil
}

// GetTicket returns one ticket
func (l *Ledger) GetTicket(ctx context.Context, lotteryID, ticketIndex uint64) (*entities.Ticket, error) {
	var ticket *entities.Ticket
	err := l.run(ctx, OpRead, func(s boundServices) error {
		var err error
		ticket, err = s.lottery.GetTicket(ctx, lotteryID, ticketIndex)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// ListTickets pages through the tickets of a lottery in index order
func (l *Ledger) ListTickets(ctx context.Context, lotteryID uint64, afterIndex *uint64, limit int) ([]*entities.Ticket, error) {
	var tickets []*entities.Ticket
	err := l.run(ctx, OpRead, func(s boundServices) error {
		var err error
		tickets, err = s.lottery.ListTickets(ctx, lotteryID, afterIndex, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}
