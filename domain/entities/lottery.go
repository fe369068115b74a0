package entities

import (
	"math"
	"time"
)

// LotteryState is the lifecycle position of a lottery
type LotteryState string

const (
	LotteryStateOpen    LotteryState = "open"
	LotteryStateDrawn   LotteryState = "drawn"
	LotteryStateSettled LotteryState = "settled"
)

// Lottery is a single priced ticket sale with one winner draw and one payout
type Lottery struct {
	ID                uint64       `db:"id"`
	Authority         Identity     `db:"authority"`
	TicketPrice       uint64       `db:"ticket_price"`
	TicketCount       uint64       `db:"ticket_count"`
	State             LotteryState `db:"state"`
	WinnerTicketIndex *uint64      `db:"winner_ticket_index"` // NULL until drawn
	PrizePot          uint64       `db:"prize_pot"`
	DrawSeed          *uint64      `db:"draw_seed"`
	DrawProof         []byte       `db:"draw_proof"`
	DrawSource        *string      `db:"draw_source"`
	CreatedAt         time.Time    `db:"created_at"`
	DrawnAt           *time.Time   `db:"drawn_at"`
	SettledAt         *time.Time   `db:"settled_at"`
}

// NewLottery returns an Open lottery with an empty pot
func NewLottery(id uint64, authority Identity, ticketPrice uint64) (*Lottery, error) {
	if ticketPrice == 0 {
		return nil, ErrInvalidTicketPrice
	}
	if err := authority.Validate(); err != nil {
		return nil, err
	}
	return &Lottery{
		ID:          id,
		Authority:   authority,
		TicketPrice: ticketPrice,
		State:       LotteryStateOpen,
		CreatedAt:   time.Now(),
	}, nil
}

// IsOpen returns true while tickets can be sold
func (l *Lottery) IsOpen() bool {
	return l.State == LotteryStateOpen
}

// IsDrawn returns true when a winner is recorded but not yet paid
func (l *Lottery) IsDrawn() bool {
	return l.State == LotteryStateDrawn
}

// IsSettled returns true once the prize has been paid out
func (l *Lottery) IsSettled() bool {
	return l.State == LotteryStateSettled
}

// HasWinner returns true if a winning ticket index is recorded
func (l *Lottery) HasWinner() bool {
	return l.WinnerTicketIndex != nil
}

// IsWinningIndex reports whether index is the recorded winner
func (l *Lottery) IsWinningIndex(index uint64) bool {
	return l.WinnerTicketIndex != nil && *l.WinnerTicketIndex == index
}

// SellTicket validates a payment and reserves the next ticket index.
// The count and pot only change when every check passes.
func (l *Lottery) SellTicket(payment uint64) (uint64, error) {
	if !l.IsOpen() {
		return 0, ErrLotteryNotOpen
	}
	if payment != l.TicketPrice {
		return 0, ErrInvalidPayment
	}
	if l.TicketCount == math.MaxUint64 || l.PrizePot > math.MaxUint64-payment {
		return 0, ErrOverflow
	}
	index := l.TicketCount
	l.TicketCount++
	l.PrizePot += payment
	return index, nil
}

// CheckDrawable verifies caller may draw this lottery now
func (l *Lottery) CheckDrawable(caller Identity) error {
	if caller != l.Authority {
		return ErrUnauthorized
	}
	if !l.IsOpen() {
		return ErrLotteryNotOpen
	}
	if l.TicketCount == 0 {
		return ErrNoTickets
	}
	return nil
}

// RecordDraw moves the lottery to Drawn with the selected winner
func (l *Lottery) RecordDraw(winnerIndex uint64, seed Seed) error {
	if !l.IsOpen() {
		return ErrLotteryNotOpen
	}
	if winnerIndex >= l.TicketCount {
		return ErrTicketNotFound
	}
	value := seed.Value
	source := seed.Source
	now := time.Now()

	l.WinnerTicketIndex = &winnerIndex
	l.DrawSeed = &value
	l.DrawProof = seed.Proof
	l.DrawSource = &source
	l.DrawnAt = &now
	l.State = LotteryStateDrawn
	return nil
}

// Settle drains the pot and moves the lottery to Settled, returning the paid amount
func (l *Lottery) Settle() (uint64, error) {
	if !l.IsDrawn() {
		return 0, ErrLotteryNotDrawn
	}
	amount := l.PrizePot
	now := time.Now()

	l.PrizePot = 0
	l.SettledAt = &now
	l.State = LotteryStateSettled
	return amount, nil
}
