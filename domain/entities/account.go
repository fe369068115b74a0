package entities

import (
	"math"
	"time"
)

// Account holds the spendable balance of an identity
type Account struct {
	Identity  Identity  `db:"identity"`
	Balance   uint64    `db:"balance"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// CanAfford returns true if the balance covers amount
func (a *Account) CanAfford(amount uint64) bool {
	return a.Balance >= amount
}

// Debit removes amount from the balance
func (a *Account) Debit(amount uint64) error {
	if !a.CanAfford(amount) {
		return ErrInsufficientFunds
	}
	a.Balance -= amount
	return nil
}

// Credit adds amount to the balance
func (a *Account) Credit(amount uint64) error {
	if a.Balance > math.MaxUint64-amount {
		return ErrOverflow
	}
	a.Balance += amount
	return nil
}
