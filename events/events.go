package events

import (
	"context"
	"sync"

	"lottoledger/domain/entities"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLotteryCreated  EventType = "lottery_created"
	EventTypeTicketPurchased EventType = "ticket_purchased"
	EventTypeWinnerDrawn     EventType = "winner_drawn"
	EventTypePrizeClaimed    EventType = "prize_claimed"
	EventTypeBalanceChange   EventType = "balance_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LotteryCreatedEvent is emitted when a new lottery opens
type LotteryCreatedEvent struct {
	LotteryID   uint64            `json:"lottery_id"`
	Authority   entities.Identity `json:"authority"`
	TicketPrice uint64            `json:"ticket_price"`
}

func (e LotteryCreatedEvent) Type() EventType {
	return EventTypeLotteryCreated
}

// TicketPurchasedEvent is emitted for every ticket sold
type TicketPurchasedEvent struct {
	LotteryID   uint64            `json:"lottery_id"`
	TicketIndex uint64            `json:"ticket_index"`
	Buyer       entities.Identity `json:"buyer"`
	Payment     uint64            `json:"payment"`
	PrizePot    uint64            `json:"prize_pot"`
}

func (e TicketPurchasedEvent) Type() EventType {
	return EventTypeTicketPurchased
}

// WinnerDrawnEvent is emitted when a lottery moves to Drawn
type WinnerDrawnEvent struct {
	LotteryID         uint64 `json:"lottery_id"`
	WinnerTicketIndex uint64 `json:"winner_ticket_index"`
	TicketCount       uint64 `json:"ticket_count"`
	PrizePot          uint64 `json:"prize_pot"`
	Seed              uint64 `json:"seed"`
	Proof             []byte `json:"proof,omitempty"`
	Source            string `json:"source"`
}

func (e WinnerDrawnEvent) Type() EventType {
	return EventTypeWinnerDrawn
}

// PrizeClaimedEvent is emitted when the winning ticket is paid
type PrizeClaimedEvent struct {
	LotteryID   uint64            `json:"lottery_id"`
	TicketIndex uint64            `json:"ticket_index"`
	Claimant    entities.Identity `json:"claimant"`
	Amount      uint64            `json:"amount"`
}

func (e PrizeClaimedEvent) Type() EventType {
	return EventTypePrizeClaimed
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	Identity        entities.Identity        `json:"identity"`
	OldBalance      uint64                   `json:"old_balance"`
	NewBalance      uint64                   `json:"new_balance"`
	TransactionType entities.TransactionType `json:"transaction_type"`
	HistoryID       int64                    `json:"history_id"`
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages in-process event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Publish dispatches an event to its handlers synchronously
func (b *Bus) Publish(event Event) error {
	b.Emit(context.Background(), event)
	return nil
}

// Emit calls every handler registered for the event type.
// A panicking handler is logged and does not stop the others.
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event to handlers")

	for i, handler := range handlers {
		func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}
