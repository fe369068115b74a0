package repository

import (
	"context"
	"fmt"

	"lottoledger/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// AccountRepository implements account balance data access
type AccountRepository struct {
	q queryable
}

// newAccountRepository creates an account repository bound to a transaction
func newAccountRepository(tx queryable) *AccountRepository {
	return &AccountRepository{q: tx}
}

// Create opens an account with the given initial balance
func (r *AccountRepository) Create(ctx context.Context, identity entities.Identity, initialBalance uint64) (*entities.Account, error) {
	query := `
		INSERT INTO accounts (identity, balance)
		VALUES ($1, $2)
		RETURNING identity, balance, created_at, updated_at
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, string(identity), numericFromUint64(initialBalance)))
	if err != nil {
		return nil, fmt.Errorf("failed to create account %s: %w", identity, translateError(err, entities.ErrAccountAlreadyExists))
	}
	return account, nil
}

// GetByIdentity retrieves an account
func (r *AccountRepository) GetByIdentity(ctx context.Context, identity entities.Identity) (*entities.Account, error) {
	query := `
		SELECT identity, balance, created_at, updated_at
		FROM accounts
		WHERE identity = $1
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, string(identity)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", identity, translateError(err, nil))
	}
	return account, nil
}

// GetByIdentityForUpdate retrieves an account with row lock for update
func (r *AccountRepository) GetByIdentityForUpdate(ctx context.Context, identity entities.Identity) (*entities.Account, error) {
	query := `
		SELECT identity, balance, created_at, updated_at
		FROM accounts
		WHERE identity = $1
		FOR UPDATE
	`

	account, err := scanAccount(r.q.QueryRow(ctx, query, string(identity)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s for update: %w", identity, translateError(err, nil))
	}
	return account, nil
}

// UpdateBalance sets the balance of an account
func (r *AccountRepository) UpdateBalance(ctx context.Context, identity entities.Identity, newBalance uint64) error {
	query := `
		UPDATE accounts
		SET balance = $2, updated_at = NOW()
		WHERE identity = $1
	`

	result, err := r.q.Exec(ctx, query, string(identity), numericFromUint64(newBalance))
	if err != nil {
		return fmt.Errorf("failed to update balance of %s: %w", identity, translateError(err, nil))
	}
	if result.RowsAffected() == 0 {
		return entities.ErrAccountNotFound
	}
	return nil
}

func scanAccount(row pgx.Row) (*entities.Account, error) {
	var account entities.Account
	var identity string
	var balance pgtype.Numeric

	if err := row.Scan(&identity, &balance, &account.CreatedAt, &account.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeUint64s(numericTarget{"balance", balance, &account.Balance}); err != nil {
		return nil, err
	}
	account.Identity = entities.Identity(identity)
	return &account, nil
}
