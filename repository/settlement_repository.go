package repository

import (
	"context"
	"fmt"

	"lottoledger/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// SettlementRepository implements access to lottery payout records
type SettlementRepository struct {
	q queryable
}

// newSettlementRepository creates a settlement repository bound to a transaction
func newSettlementRepository(tx queryable) *SettlementRepository {
	return &SettlementRepository{q: tx}
}

// Create records the settlement of a lottery. A second settlement of the same lottery is rejected.
func (r *SettlementRepository) Create(ctx context.Context, settlement *entities.Settlement) error {
	query := `
		INSERT INTO settlements (lottery_id, ticket_index, claimant, amount, balance_history_id, settled_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING settled_at
	`

	err := r.q.QueryRow(ctx, query,
		numericFromUint64(settlement.LotteryID),
		numericFromUint64(settlement.TicketIndex),
		string(settlement.Claimant),
		numericFromUint64(settlement.Amount),
		settlement.BalanceHistoryID,
		settlement.SettledAt,
	).Scan(&settlement.SettledAt)
	if err != nil {
		return fmt.Errorf("failed to create settlement for lottery %d: %w",
			settlement.LotteryID, translateError(err, entities.ErrAlreadyClaimed))
	}
	return nil
}

// GetByLotteryID returns the settlement of a lottery
func (r *SettlementRepository) GetByLotteryID(ctx context.Context, lotteryID uint64) (*entities.Settlement, error) {
	query := `
		SELECT lottery_id, ticket_index, claimant, amount, balance_history_id, settled_at
		FROM settlements
		WHERE lottery_id = $1
	`

	var settlement entities.Settlement
	var id, index, amount pgtype.Numeric
	var claimant string

	err := r.q.QueryRow(ctx, query, numericFromUint64(lotteryID)).Scan(
		&id,
		&index,
		&claimant,
		&amount,
		&settlement.BalanceHistoryID,
		&settlement.SettledAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement for lottery %d: %w", lotteryID, translateError(err, nil))
	}

	err = decodeUint64s(
		numericTarget{"lottery_id", id, &settlement.LotteryID},
		numericTarget{"ticket_index", index, &settlement.TicketIndex},
		numericTarget{"amount", amount, &settlement.Amount},
	)
	if err != nil {
		return nil, err
	}
	settlement.Claimant = entities.Identity(claimant)
	return &settlement, nil
}
