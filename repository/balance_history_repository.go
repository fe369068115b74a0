package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"lottoledger/domain/entities"

	"github.com/jackc/pgx/v5/pgtype"
)

// BalanceHistoryRepository implements the BalanceHistoryRepository interface
type BalanceHistoryRepository struct {
	q queryable
}

// newBalanceHistoryRepository creates a balance history repository bound to a transaction
func newBalanceHistoryRepository(tx queryable) *BalanceHistoryRepository {
	return &BalanceHistoryRepository{q: tx}
}

// Record creates a new balance history entry.
// change_amount is derived from the two balances so it is always consistent.
func (r *BalanceHistoryRepository) Record(ctx context.Context, history *entities.BalanceHistory) error {
	metadata := history.TransactionMetadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO balance_history
		(identity, balance_before, balance_after, change_amount, transaction_type, transaction_metadata)
		VALUES ($1, $2::numeric, $3::numeric, $3::numeric - $2::numeric, $4, $5)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		string(history.Identity),
		numericFromUint64(history.BalanceBefore),
		numericFromUint64(history.BalanceAfter),
		string(history.TransactionType),
		metadataJSON,
	).Scan(&history.ID, &history.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record balance history for %s: %w", history.Identity, translateError(err, nil))
	}
	return nil
}

// GetByIdentity returns the most recent balance history entries of an account
func (r *BalanceHistoryRepository) GetByIdentity(ctx context.Context, identity entities.Identity, limit int) ([]*entities.BalanceHistory, error) {
	query := `
		SELECT id, identity, balance_before, balance_after, transaction_type, transaction_metadata, created_at
		FROM balance_history
		WHERE identity = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, string(identity), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query balance history: %w", translateError(err, nil))
	}
	defer rows.Close()

	var histories []*entities.BalanceHistory
	for rows.Next() {
		var history entities.BalanceHistory
		var before, after pgtype.Numeric
		var ident, txType string
		var metadataJSON []byte

		err := rows.Scan(
			&history.ID,
			&ident,
			&before,
			&after,
			&txType,
			&metadataJSON,
			&history.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance history: %w", err)
		}

		err = decodeUint64s(
			numericTarget{"balance_before", before, &history.BalanceBefore},
			numericTarget{"balance_after", after, &history.BalanceAfter},
		)
		if err != nil {
			return nil, err
		}
		if len(metadataJSON) > 0 {
			metadata, err := decodeMetadata(metadataJSON)
			if err != nil {
				return nil, err
			}
			history.TransactionMetadata = metadata
		}

		history.Identity = entities.Identity(ident)
		history.TransactionType = entities.TransactionType(txType)
		histories = append(histories, &history)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating balance history: %w", err)
	}
	return histories, nil
}

// decodeMetadata keeps JSON numbers as json.Number so integers above 2^53 survive
func decodeMetadata(raw []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var metadata map[string]any
	if err := decoder.Decode(&metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transaction metadata: %w", err)
	}
	return metadata, nil
}
