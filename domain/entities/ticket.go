package entities

import "time"

// Ticket is one purchase in a lottery, keyed by (LotteryID, TicketIndex)
type Ticket struct {
	LotteryID   uint64    `db:"lottery_id"`
	TicketIndex uint64    `db:"ticket_index"`
	Buyer       Identity  `db:"buyer"`
	Claimed     bool      `db:"claimed"`
	PurchasedAt time.Time `db:"purchased_at"`
}

// CheckClaim verifies claimant may collect the prize on this ticket
func (t *Ticket) CheckClaim(claimant Identity) error {
	if t.Buyer != claimant {
		return ErrUnauthorized
	}
	if t.Claimed {
		return ErrAlreadyClaimed
	}
	return nil
}

// MarkClaimed flips the claimed flag exactly once
func (t *Ticket) MarkClaimed() error {
	if t.Claimed {
		return ErrAlreadyClaimed
	}
	t.Claimed = true
	return nil
}
