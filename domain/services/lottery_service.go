package services

import (
	"context"
	"errors"
	"fmt"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
	"lottoledger/events"

	log "github.com/sirupsen/logrus"
)

const (
	// DefaultPageSize is used when a listing is requested without a limit
	DefaultPageSize = 50
	// MaxPageSize caps a single page of tickets or lotteries
	MaxPageSize = 500
)

// lotteryService implements the lottery ledger operations
type lotteryService struct {
	registryRepo   interfaces.RegistryRepository
	lotteryRepo    interfaces.LotteryRepository
	ticketRepo     interfaces.TicketRepository
	settlementRepo interfaces.SettlementRepository
	funds          interfaces.FundsTransfer
	randomness     interfaces.RandomnessSource
	eventPublisher interfaces.EventPublisher
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	registryRepo interfaces.RegistryRepository,
	lotteryRepo interfaces.LotteryRepository,
	ticketRepo interfaces.TicketRepository,
	settlementRepo interfaces.SettlementRepository,
	funds interfaces.FundsTransfer,
	randomness interfaces.RandomnessSource,
	eventPublisher interfaces.EventPublisher,
) interfaces.LotteryService {
	return &lotteryService{
		registryRepo:   registryRepo,
		lotteryRepo:    lotteryRepo,
		ticketRepo:     ticketRepo,
		settlementRepo: settlementRepo,
		funds:          funds,
		randomness:     randomness,
		eventPublisher: eventPublisher,
	}
}

// InitRegistry creates the registry singleton with the counter at zero
func (s *lotteryService) InitRegistry(ctx context.Context) (*entities.Registry, error) {
	registry, err := s.registryRepo.Create(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", err)
	}

	log.Info("Initialized lottery registry")
	return registry, nil
}

// CreateLottery allocates the next lottery id and opens the lottery
func (s *lotteryService) CreateLottery(ctx context.Context, authority entities.Identity, ticketPrice uint64) (*entities.Lottery, error) {
	if ticketPrice == 0 {
		return nil, entities.ErrInvalidTicketPrice
	}
	if err := authority.Validate(); err != nil {
		return nil, err
	}

	registry, err := s.registryRepo.GetForUpdate(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}
	if registry == nil {
		return nil, entities.ErrRegistryNotInitialized
	}

	lotteryID, err := registry.Allocate()
	if err != nil {
		return nil, err
	}

	lottery, err := entities.NewLottery(lotteryID, authority, ticketPrice)
	if err != nil {
		return nil, err
	}
	if err := s.lotteryRepo.Create(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to create lottery %d: %w", lotteryID, err)
	}
	if err := s.registryRepo.Update(ctx, registry); err != nil {
		return nil, fmt.Errorf("failed to update registry: %w", err)
	}

	s.publish(events.LotteryCreatedEvent{
		LotteryID:   lottery.ID,
		Authority:   lottery.Authority,
		TicketPrice: lottery.TicketPrice,
	})

	log.WithFields(log.Fields{
		"lotteryID":   lottery.ID,
		"authority":   lottery.Authority,
		"ticketPrice": lottery.TicketPrice,
	}).Info("Created lottery")

	return lottery, nil
}

// BuyTicket sells the next ticket of an open lottery to buyer
func (s *lotteryService) BuyTicket(ctx context.Context, lotteryID uint64, buyer entities.Identity, payment uint64) (*entities.Ticket, error) {
	lottery, err := s.loadForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, err
	}
	// An unknown lottery is reported ahead of a malformed buyer
	if err := buyer.Validate(); err != nil {
		return nil, err
	}

	// Mutates the in-memory lottery only; nothing is written unless the charge succeeds
	ticketIndex, err := lottery.SellTicket(payment)
	if err != nil {
		return nil, err
	}

	if _, err := s.funds.Charge(ctx, buyer, payment, lotteryID); err != nil {
		return nil, fmt.Errorf("failed to charge buyer: %w", err)
	}

	ticket := &entities.Ticket{
		LotteryID:   lotteryID,
		TicketIndex: ticketIndex,
		Buyer:       buyer,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket %d for lottery %d: %w", ticketIndex, lotteryID, err)
	}
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery %d: %w", lotteryID, err)
	}

	s.publish(events.TicketPurchasedEvent{
		LotteryID:   lotteryID,
		TicketIndex: ticketIndex,
		Buyer:       buyer,
		Payment:     payment,
		PrizePot:    lottery.PrizePot,
	})

	log.WithFields(log.Fields{
		"lotteryID":   lotteryID,
		"ticketIndex": ticketIndex,
		"buyer":       buyer,
		"prizePot":    lottery.PrizePot,
	}).Info("Sold lottery ticket")

	return ticket, nil
}

// PickWinner draws the winning ticket index from the randomness source
func (s *lotteryService) PickWinner(ctx context.Context, lotteryID uint64, caller entities.Identity) (*entities.Lottery, error) {
	lottery, err := s.loadForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, err
	}

	if err := lottery.CheckDrawable(caller); err != nil {
		return nil, err
	}

	seed, err := s.randomness.SeedFor(ctx, lotteryID)
	if err != nil {
		if errors.Is(err, entities.ErrRandomnessUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", entities.ErrRandomnessUnavailable, err)
	}
	if seed.Source == "" {
		seed.Source = s.randomness.Name()
	}

	winnerIndex, err := entities.SelectWinnerIndex(seed.Value, lottery.TicketCount)
	if err != nil {
		return nil, err
	}
	if err := lottery.RecordDraw(winnerIndex, seed); err != nil {
		return nil, err
	}
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery %d: %w", lotteryID, err)
	}

	s.publish(events.WinnerDrawnEvent{
		LotteryID:         lotteryID,
		WinnerTicketIndex: winnerIndex,
		TicketCount:       lottery.TicketCount,
		PrizePot:          lottery.PrizePot,
		Seed:              seed.Value,
		Proof:             seed.Proof,
		Source:            seed.Source,
	})

	log.WithFields(log.Fields{
		"lotteryID":   lotteryID,
		"winnerIndex": winnerIndex,
		"ticketCount": lottery.TicketCount,
		"source":      seed.Source,
	}).Info("Drew lottery winner")

	return lottery, nil
}

// ClaimPrize transfers the pot to the buyer of the winning ticket and settles the lottery
func (s *lotteryService) ClaimPrize(ctx context.Context, lotteryID, ticketIndex uint64, claimant entities.Identity) (*entities.Settlement, error) {
	lottery, err := s.loadForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, err
	}
	if lottery.IsOpen() {
		return nil, entities.ErrLotteryNotDrawn
	}

	ticket, err := s.ticketRepo.GetForUpdate(ctx, lotteryID, ticketIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d of lottery %d: %w", ticketIndex, lotteryID, err)
	}
	if ticket == nil {
		return nil, entities.ErrTicketNotFound
	}
	if !lottery.IsWinningIndex(ticketIndex) {
		return nil, entities.ErrNotWinningTicket
	}
	// A settled lottery has already paid its one claim
	if lottery.IsSettled() {
		return nil, entities.ErrAlreadyClaimed
	}
	if err := ticket.CheckClaim(claimant); err != nil {
		return nil, err
	}

	amount := lottery.PrizePot
	history, err := s.funds.Transfer(ctx, lottery, claimant, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to transfer prize: %w", err)
	}

	if err := ticket.MarkClaimed(); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.MarkClaimed(ctx, lotteryID, ticketIndex); err != nil {
		return nil, fmt.Errorf("failed to mark ticket %d claimed: %w", ticketIndex, err)
	}

	if _, err := lottery.Settle(); err != nil {
		return nil, err
	}
	if err := s.lotteryRepo.Update(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to update lottery %d: %w", lotteryID, err)
	}

	settlement := &entities.Settlement{
		LotteryID:   lotteryID,
		TicketIndex: ticketIndex,
		Claimant:    claimant,
		Amount:      amount,
		SettledAt:   *lottery.SettledAt,
	}
	if history != nil {
		settlement.BalanceHistoryID = &history.ID
	}
	if err := s.settlementRepo.Create(ctx, settlement); err != nil {
		return nil, fmt.Errorf("failed to record settlement: %w", err)
	}

	s.publish(events.PrizeClaimedEvent{
		LotteryID:   lotteryID,
		TicketIndex: ticketIndex,
		Claimant:    claimant,
		Amount:      amount,
	})

	log.WithFields(log.Fields{
		"lotteryID":   lotteryID,
		"ticketIndex": ticketIndex,
		"claimant":    claimant,
		"amount":      amount,
	}).Info("Settled lottery prize")

	return settlement, nil
}

// GetRegistry returns the registry or entities.ErrRegistryNotInitialized
func (s *lotteryService) GetRegistry(ctx context.Context) (*entities.Registry, error) {
	registry, err := s.registryRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}
	if registry == nil {
		return nil, entities.ErrRegistryNotInitialized
	}
	return registry, nil
}

// GetLottery returns a lottery or entities.ErrLotteryNotFound
func (s *lotteryService) GetLottery(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	lottery, err := s.lotteryRepo.GetByID(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery %d: %w", lotteryID, err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}
	return lottery, nil
}

// ListLotteries returns a page of lotteries ordered by id
func (s *lotteryService) ListLotteries(ctx context.Context, afterID *uint64, limit int) ([]*entities.Lottery, error) {
	lotteries, err := s.lotteryRepo.List(ctx, afterID, clampPageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list lotteries: %w", err)
	}
	return lotteries, nil
}

// GetTicket returns a ticket or entities.ErrTicketNotFound
func (s *lotteryService) GetTicket(ctx context.Context, lotteryID, ticketIndex uint64) (*entities.Ticket, error) {
	ticket, err := s.ticketRepo.Get(ctx, lotteryID, ticketIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d of lottery %d: %w", ticketIndex, lotteryID, err)
	}
	if ticket == nil {
		return nil, entities.ErrTicketNotFound
	}
	return ticket, nil
}

// ListTickets returns one page of a lottery's tickets, never the whole set
func (s *lotteryService) ListTickets(ctx context.Context, lotteryID uint64, afterIndex *uint64, limit int) ([]*entities.Ticket, error) {
	if _, err := s.GetLottery(ctx, lotteryID); err != nil {
		return nil, err
	}

	tickets, err := s.ticketRepo.ListByLottery(ctx, lotteryID, afterIndex, clampPageSize(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets of lottery %d: %w", lotteryID, err)
	}
	return tickets, nil
}

// GetSettlement returns the payout record of a settled lottery
func (s *lotteryService) GetSettlement(ctx context.Context, lotteryID uint64) (*entities.Settlement, error) {
	settlement, err := s.settlementRepo.GetByLotteryID(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement of lottery %d: %w", lotteryID, err)
	}
	if settlement == nil {
		return nil, entities.ErrSettlementNotFound
	}
	return settlement, nil
}

func (s *lotteryService) loadForUpdate(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	lottery, err := s.lotteryRepo.GetByIDForUpdate(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery %d: %w", lotteryID, err)
	}
	if lottery == nil {
		return nil, entities.ErrLotteryNotFound
	}
	return lottery, nil
}

func (s *lotteryService) publish(event events.Event) {
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to publish event")
	}
}

func clampPageSize(limit int) int {
	if limit <= 0 {
		return DefaultPageSize
	}
	if limit > MaxPageSize {
		return MaxPageSize
	}
	return limit
}
