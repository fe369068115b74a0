package services

import (
	"context"
	"fmt"
	"strconv"

	"lottoledger/domain/entities"
	"lottoledger/domain/interfaces"
	"lottoledger/domain/utils"

	log "github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

// fundsService implements account balances and pot transfers
type fundsService struct {
	accountRepo        interfaces.AccountRepository
	balanceHistoryRepo interfaces.BalanceHistoryRepository
	eventPublisher     interfaces.EventPublisher
}

// NewFundsService creates a new funds service
func NewFundsService(
	accountRepo interfaces.AccountRepository,
	balanceHistoryRepo interfaces.BalanceHistoryRepository,
	eventPublisher interfaces.EventPublisher,
) interfaces.FundsService {
	return &fundsService{
		accountRepo:        accountRepo,
		balanceHistoryRepo: balanceHistoryRepo,
		eventPublisher:     eventPublisher,
	}
}

// Charge debits a ticket payment from the buyer's account
func (s *fundsService) Charge(ctx context.Context, from entities.Identity, amount uint64, lotteryID uint64) (*entities.BalanceHistory, error) {
	account, err := s.accountRepo.GetByIdentityForUpdate(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	before := account.Balance
	if err := account.Debit(amount); err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateBalance(ctx, from, account.Balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		Identity:        from,
		BalanceBefore:   before,
		BalanceAfter:    account.Balance,
		TransactionType: entities.TransactionTypeLotteryTicket,
		TransactionMetadata: map[string]any{
			"lottery_id": strconv.FormatUint(lotteryID, 10),
		},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}
	return history, nil
}

// Transfer pays amount out of the lottery pot into the account of to.
// The pot itself is drained by the caller when it settles the lottery.
func (s *fundsService) Transfer(ctx context.Context, pot *entities.Lottery, to entities.Identity, amount uint64) (*entities.BalanceHistory, error) {
	if amount > pot.PrizePot {
		return nil, entities.ErrInsufficientFunds
	}

	account, err := s.accountRepo.GetByIdentityForUpdate(ctx, to)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrInvalidDestination
	}

	before := account.Balance
	if err := account.Credit(amount); err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateBalance(ctx, to, account.Balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	// Identifiers are stored as decimal strings; JSON readers may decode numbers as float64
	metadata := map[string]any{
		"lottery_id": strconv.FormatUint(pot.ID, 10),
	}
	if pot.WinnerTicketIndex != nil {
		metadata["ticket_index"] = strconv.FormatUint(*pot.WinnerTicketIndex, 10)
	}
	history := &entities.BalanceHistory{
		Identity:            to,
		BalanceBefore:       before,
		BalanceAfter:        account.Balance,
		TransactionType:     entities.TransactionTypeLotteryPrize,
		TransactionMetadata: metadata,
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}
	return history, nil
}

// OpenAccount creates an account and records its initial balance
func (s *fundsService) OpenAccount(ctx context.Context, identity entities.Identity, initialBalance uint64) (*entities.Account, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	account, err := s.accountRepo.Create(ctx, identity, initialBalance)
	if err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	history := &entities.BalanceHistory{
		Identity:            identity,
		BalanceBefore:       0,
		BalanceAfter:        initialBalance,
		TransactionType:     entities.TransactionTypeInitial,
		TransactionMetadata: map[string]any{},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"identity": identity,
		"balance":  initialBalance,
	}).Info("Opened account")
	return account, nil
}

// Deposit credits an existing account
func (s *fundsService) Deposit(ctx context.Context, identity entities.Identity, amount uint64) (*entities.Account, error) {
	if amount == 0 {
		return nil, entities.ErrInvalidAmount
	}

	account, err := s.accountRepo.GetByIdentityForUpdate(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}

	before := account.Balance
	if err := account.Credit(amount); err != nil {
		return nil, err
	}
	if err := s.accountRepo.UpdateBalance(ctx, identity, account.Balance); err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	history := &entities.BalanceHistory{
		Identity:            identity,
		BalanceBefore:       before,
		BalanceAfter:        account.Balance,
		TransactionType:     entities.TransactionTypeDeposit,
		TransactionMetadata: map[string]any{},
	}
	if err := utils.RecordBalanceChange(ctx, s.balanceHistoryRepo, s.eventPublisher, history); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"identity": identity,
		"amount":   amount,
		"balance":  account.Balance,
	}).Info("Deposited funds")
	return account, nil
}

// GetAccount returns an account or entities.ErrAccountNotFound
func (s *fundsService) GetAccount(ctx context.Context, identity entities.Identity) (*entities.Account, error) {
	account, err := s.accountRepo.GetByIdentity(ctx, identity)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	if account == nil {
		return nil, entities.ErrAccountNotFound
	}
	return account, nil
}

// GetHistory returns the latest balance changes of an account
func (s *fundsService) GetHistory(ctx context.Context, identity entities.Identity, limit int) ([]*entities.BalanceHistory, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	history, err := s.balanceHistoryRepo.GetByIdentity(ctx, identity, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance history: %w", err)
	}
	return history, nil
}
