package interfaces

import (
	"context"

	"lottoledger/domain/entities"
	"lottoledger/events"
)

// RegistryRepository defines the interface for the registry singleton
type RegistryRepository interface {
	// Create inserts the registry with next_lottery_id = 0.
	// Returns entities.ErrAlreadyInitialized if it already exists.
	Create(ctx context.Context) (*entities.Registry, error)

	// Get returns the registry, or nil if it has not been created
	Get(ctx context.Context) (*entities.Registry, error)

	// GetForUpdate returns the registry with a row lock held until the transaction ends
	GetForUpdate(ctx context.Context) (*entities.Registry, error)

	// Update persists the registry counter
	Update(ctx context.Context, registry *entities.Registry) error
}

// LotteryRepository defines the interface for lottery data access
type LotteryRepository interface {
	// Create inserts a new lottery
	Create(ctx context.Context, lottery *entities.Lottery) error

	// GetByID retrieves a lottery by ID, nil if absent
	GetByID(ctx context.Context, id uint64) (*entities.Lottery, error)

	// GetByIDForUpdate retrieves a lottery by ID with a row lock
	GetByIDForUpdate(ctx context.Context, id uint64) (*entities.Lottery, error)

	// Update persists the mutable lottery fields
	Update(ctx context.Context, lottery *entities.Lottery) error

	// List returns lotteries ordered by id, starting after afterID when set
	List(ctx context.Context, afterID *uint64, limit int) ([]*entities.Lottery, error)
}

// TicketRepository defines the interface for ticket data access
type TicketRepository interface {
	// Create inserts a ticket
	Create(ctx context.Context, ticket *entities.Ticket) error

	// Get retrieves a ticket by its key, nil if absent
	Get(ctx context.Context, lotteryID, ticketIndex uint64) (*entities.Ticket, error)

	// GetForUpdate retrieves a ticket by its key with a row lock
	GetForUpdate(ctx context.Context, lotteryID, ticketIndex uint64) (*entities.Ticket, error)

	// MarkClaimed sets the claimed flag
	MarkClaimed(ctx context.Context, lotteryID, ticketIndex uint64) error

	// ListByLottery returns a page of tickets ordered by index, starting after afterIndex when set
	ListByLottery(ctx context.Context, lotteryID uint64, afterIndex *uint64, limit int) ([]*entities.Ticket, error)
}

// SettlementRepository defines the interface for payout records
type SettlementRepository interface {
	// Create inserts the settlement of a lottery
	Create(ctx context.Context, settlement *entities.Settlement) error

	// GetByLotteryID returns the settlement of a lottery, nil if unsettled
	GetByLotteryID(ctx context.Context, lotteryID uint64) (*entities.Settlement, error)
}

// AccountRepository defines the interface for account balances
type AccountRepository interface {
	// Create opens an account. Returns entities.ErrAccountAlreadyExists on conflict.
	Create(ctx context.Context, identity entities.Identity, initialBalance uint64) (*entities.Account, error)

	// GetByIdentity retrieves an account, nil if absent
	GetByIdentity(ctx context.Context, identity entities.Identity) (*entities.Account, error)

	// GetByIdentityForUpdate retrieves an account with a row lock
	GetByIdentityForUpdate(ctx context.Context, identity entities.Identity) (*entities.Account, error)

	// UpdateBalance sets the account balance
	UpdateBalance(ctx context.Context, identity entities.Identity, newBalance uint64) error
}

// BalanceHistoryRepository defines the interface for balance history tracking
type BalanceHistoryRepository interface {
	// Record creates a new balance history entry and fills in its ID and CreatedAt
	Record(ctx context.Context, history *entities.BalanceHistory) error

	// GetByIdentity returns the most recent entries for an account
	GetByIdentity(ctx context.Context, identity entities.Identity, limit int) ([]*entities.BalanceHistory, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event) error
}

// TransactionalEventPublisher buffers events until the surrounding transaction commits
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}
