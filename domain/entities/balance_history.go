package entities

import "time"

// BalanceHistory represents a historical balance change.
// The signed change is balance_after - balance_before, computed by the store.
type BalanceHistory struct {
	ID                  int64           `db:"id"`
	Identity            Identity        `db:"identity"`
	BalanceBefore       uint64          `db:"balance_before"`
	BalanceAfter        uint64          `db:"balance_after"`
	TransactionType     TransactionType `db:"transaction_type"`
	TransactionMetadata map[string]any  `db:"transaction_metadata"`
	CreatedAt           time.Time       `db:"created_at"`
}

// IsPositiveChange returns true if the balance went up
func (bh *BalanceHistory) IsPositiveChange() bool {
	return bh.BalanceAfter > bh.BalanceBefore
}

// IsNegativeChange returns true if the balance went down
func (bh *BalanceHistory) IsNegativeChange() bool {
	return bh.BalanceAfter < bh.BalanceBefore
}

// Magnitude returns the absolute size of the change
func (bh *BalanceHistory) Magnitude() uint64 {
	if bh.BalanceAfter >= bh.BalanceBefore {
		return bh.BalanceAfter - bh.BalanceBefore
	}
	return bh.BalanceBefore - bh.BalanceAfter
}
