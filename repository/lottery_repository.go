package repository

import (
	"context"
	"fmt"

	"lottoledger/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const lotteryColumns = `id, authority, ticket_price, ticket_count, state, winner_ticket_index,
		       prize_pot, draw_seed, draw_proof, draw_source, created_at, drawn_at, settled_at`

// LotteryRepository implements lottery data access
type LotteryRepository struct {
	q queryable
}

// newLotteryRepository creates a lottery repository bound to a transaction
func newLotteryRepository(tx queryable) *LotteryRepository {
	return &LotteryRepository{q: tx}
}

// Create inserts a new lottery and fills in its creation time
func (r *LotteryRepository) Create(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		INSERT INTO lotteries (id, authority, ticket_price, ticket_count, state, prize_pot)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.q.QueryRow(ctx, query,
		numericFromUint64(lottery.ID),
		string(lottery.Authority),
		numericFromUint64(lottery.TicketPrice),
		numericFromUint64(lottery.TicketCount),
		string(lottery.State),
		numericFromUint64(lottery.PrizePot),
	).Scan(&lottery.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create lottery %d: %w", lottery.ID, translateError(err, entities.ErrLotteryAlreadyRecorded))
	}
	return nil
}

// GetByID retrieves a lottery by its ID
func (r *LotteryRepository) GetByID(ctx context.Context, id uint64) (*entities.Lottery, error) {
	query := `
		SELECT ` + lotteryColumns + `
		FROM lotteries
		WHERE id = $1
	`

	lottery, err := scanLottery(r.q.QueryRow(ctx, query, numericFromUint64(id)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery by ID %d: %w", id, translateError(err, nil))
	}
	return lottery, nil
}

// GetByIDForUpdate retrieves a lottery by ID with row lock for update
func (r *LotteryRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*entities.Lottery, error) {
	query := `
		SELECT ` + lotteryColumns + `
		FROM lotteries
		WHERE id = $1
		FOR UPDATE
	`

	lottery, err := scanLottery(r.q.QueryRow(ctx, query, numericFromUint64(id)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery %d for update: %w", id, translateError(err, nil))
	}
	return lottery, nil
}

// Update persists the mutable fields of a lottery
func (r *LotteryRepository) Update(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		UPDATE lotteries
		SET ticket_count = $2,
		    state = $3,
		    winner_ticket_index = $4,
		    prize_pot = $5,
		    draw_seed = $6,
		    draw_proof = $7,
		    draw_source = $8,
		    drawn_at = $9,
		    settled_at = $10
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		numericFromUint64(lottery.ID),
		numericFromUint64(lottery.TicketCount),
		string(lottery.State),
		numericFromUint64Ptr(lottery.WinnerTicketIndex),
		numericFromUint64(lottery.PrizePot),
		numericFromUint64Ptr(lottery.DrawSeed),
		lottery.DrawProof,
		lottery.DrawSource,
		lottery.DrawnAt,
		lottery.SettledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update lottery %d: %w", lottery.ID, translateError(err, nil))
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lottery %d not found", lottery.ID)
	}
	return nil
}

// List returns lotteries ordered by id using keyset pagination
func (r *LotteryRepository) List(ctx context.Context, afterID *uint64, limit int) ([]*entities.Lottery, error) {
	query := `
		SELECT ` + lotteryColumns + `
		FROM lotteries
		WHERE $1::numeric IS NULL OR id > $1
		ORDER BY id
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, numericFromUint64Ptr(afterID), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list lotteries: %w", translateError(err, nil))
	}
	defer rows.Close()

	var lotteries []*entities.Lottery
	for rows.Next() {
		lottery, err := scanLottery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery: %w", err)
		}
		lotteries = append(lotteries, lottery)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lotteries: %w", err)
	}
	return lotteries, nil
}

func scanLottery(row pgx.Row) (*entities.Lottery, error) {
	var lottery entities.Lottery
	var (
		id, price, count, pot pgtype.Numeric
		winner, seed          pgtype.Numeric
		authority, state      string
	)

	err := row.Scan(
		&id,
		&authority,
		&price,
		&count,
		&state,
		&winner,
		&pot,
		&seed,
		&lottery.DrawProof,
		&lottery.DrawSource,
		&lottery.CreatedAt,
		&lottery.DrawnAt,
		&lottery.SettledAt,
	)
	if err != nil {
		return nil, err
	}

	err = decodeUint64s(
		numericTarget{"id", id, &lottery.ID},
		numericTarget{"ticket_price", price, &lottery.TicketPrice},
		numericTarget{"ticket_count", count, &lottery.TicketCount},
		numericTarget{"prize_pot", pot, &lottery.PrizePot},
	)
	if err != nil {
		return nil, err
	}
	if lottery.WinnerTicketIndex, err = uint64PtrFromNumeric(winner); err != nil {
		return nil, fmt.Errorf("failed to decode winner_ticket_index: %w", err)
	}
	if lottery.DrawSeed, err = uint64PtrFromNumeric(seed); err != nil {
		return nil, fmt.Errorf("failed to decode draw_seed: %w", err)
	}

	lottery.Authority = entities.Identity(authority)
	lottery.State = entities.LotteryState(state)
	return &lottery, nil
}
