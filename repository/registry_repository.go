package repository

import (
	"context"
	"fmt"

	"lottoledger/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// RegistryRepository implements access to the registry singleton
type RegistryRepository struct {
	q queryable
}

// newRegistryRepository creates a registry repository bound to a transaction
func newRegistryRepository(tx queryable) *RegistryRepository {
	return &RegistryRepository{q: tx}
}

// Create inserts the registry row with the counter at zero
func (r *RegistryRepository) Create(ctx context.Context) (*entities.Registry, error) {
	query := `
		INSERT INTO registry (singleton, next_lottery_id)
		VALUES (TRUE, 0)
		ON CONFLICT (singleton) DO NOTHING
		RETURNING next_lottery_id, created_at, updated_at
	`

	registry, err := r.scan(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, entities.ErrAlreadyInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create registry: %w", translateError(err, entities.ErrAlreadyInitialized))
	}
	return registry, nil
}

// Get returns the registry, or nil if it does not exist
func (r *RegistryRepository) Get(ctx context.Context) (*entities.Registry, error) {
	query := `
		SELECT next_lottery_id, created_at, updated_at
		FROM registry
		WHERE singleton
	`

	registry, err := r.scan(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registry: %w", translateError(err, nil))
	}
	return registry, nil
}

// GetForUpdate returns the registry with its row locked
func (r *RegistryRepository) GetForUpdate(ctx context.Context) (*entities.Registry, error) {
	query := `
		SELECT next_lottery_id, created_at, updated_at
		FROM registry
		WHERE singleton
		FOR UPDATE
	`

	registry, err := r.scan(r.q.QueryRow(ctx, query))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get registry for update: %w", translateError(err, nil))
	}
	return registry, nil
}

// Update stores the counter value
func (r *RegistryRepository) Update(ctx context.Context, registry *entities.Registry) error {
	query := `
		UPDATE registry
		SET next_lottery_id = $1, updated_at = NOW()
		WHERE singleton
		RETURNING updated_at
	`

	err := r.q.QueryRow(ctx, query, numericFromUint64(registry.NextLotteryID)).Scan(&registry.UpdatedAt)
	if err == pgx.ErrNoRows {
		return entities.ErrRegistryNotInitialized
	}
	if err != nil {
		return fmt.Errorf("failed to update registry: %w", translateError(err, nil))
	}
	return nil
}

func (r *RegistryRepository) scan(row pgx.Row) (*entities.Registry, error) {
	var registry entities.Registry
	var next pgtype.Numeric

	if err := row.Scan(&next, &registry.CreatedAt, &registry.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeUint64s(numericTarget{"next_lottery_id", next, &registry.NextLotteryID}); err != nil {
		return nil, err
	}
	return &registry, nil
}
