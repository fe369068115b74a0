package entities

import "time"

// Settlement records the one payout of a lottery
type Settlement struct {
	LotteryID        uint64    `db:"lottery_id"`
	TicketIndex      uint64    `db:"ticket_index"`
	Claimant         Identity  `db:"claimant"`
	Amount           uint64    `db:"amount"`
	BalanceHistoryID *int64    `db:"balance_history_id"`
	SettledAt        time.Time `db:"settled_at"`
}
