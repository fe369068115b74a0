package repository

import (
	"context"
	"fmt"

	"lottoledger/domain/entities"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// TicketRepository implements ticket data access
type TicketRepository struct {
	q queryable
}

// newTicketRepository creates a ticket repository bound to a transaction
func newTicketRepository(tx queryable) *TicketRepository {
	return &TicketRepository{q: tx}
}

// Create inserts a ticket. The (lottery_id, ticket_index) key rejects duplicates.
func (r *TicketRepository) Create(ctx context.Context, ticket *entities.Ticket) error {
	query := `
		INSERT INTO tickets (lottery_id, ticket_index, buyer, claimed)
		VALUES ($1, $2, $3, $4)
		RETURNING purchased_at
	`

	err := r.q.QueryRow(ctx, query,
		numericFromUint64(ticket.LotteryID),
		numericFromUint64(ticket.TicketIndex),
		string(ticket.Buyer),
		ticket.Claimed,
	).Scan(&ticket.PurchasedAt)
	if err != nil {
		return fmt.Errorf("failed to create ticket %d for lottery %d: %w",
			ticket.TicketIndex, ticket.LotteryID, translateError(err, entities.ErrStoreConflict))
	}
	return nil
}

// Get retrieves a ticket by lottery and index
func (r *TicketRepository) Get(ctx context.Context, lotteryID, ticketIndex uint64) (*entities.Ticket, error) {
	query := `
		SELECT lottery_id, ticket_index, buyer, claimed, purchased_at
		FROM tickets
		WHERE lottery_id = $1 AND ticket_index = $2
	`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, numericFromUint64(lotteryID), numericFromUint64(ticketIndex)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d of lottery %d: %w", ticketIndex, lotteryID, translateError(err, nil))
	}
	return ticket, nil
}

// GetForUpdate retrieves a ticket with row lock for update
func (r *TicketRepository) GetForUpdate(ctx context.Context, lotteryID, ticketIndex uint64) (*entities.Ticket, error) {
	query := `
		SELECT lottery_id, ticket_index, buyer, claimed, purchased_at
		FROM tickets
		WHERE lottery_id = $1 AND ticket_index = $2
		FOR UPDATE
	`

	ticket, err := scanTicket(r.q.QueryRow(ctx, query, numericFromUint64(lotteryID), numericFromUint64(ticketIndex)))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket %d of lottery %d for update: %w", ticketIndex, lotteryID, translateError(err, nil))
	}
	return ticket, nil
}

// MarkClaimed flips the claimed flag of an unclaimed ticket
func (r *TicketRepository) MarkClaimed(ctx context.Context, lotteryID, ticketIndex uint64) error {
	query := `
		UPDATE tickets
		SET claimed = TRUE
		WHERE lottery_id = $1 AND ticket_index = $2 AND NOT claimed
	`

	result, err := r.q.Exec(ctx, query, numericFromUint64(lotteryID), numericFromUint64(ticketIndex))
	if err != nil {
		return fmt.Errorf("failed to mark ticket %d of lottery %d claimed: %w", ticketIndex, lotteryID, translateError(err, nil))
	}
	if result.RowsAffected() == 0 {
		return entities.ErrAlreadyClaimed
	}
	return nil
}

// ListByLottery returns one page of tickets ordered by index
func (r *TicketRepository) ListByLottery(ctx context.Context, lotteryID uint64, afterIndex *uint64, limit int) ([]*entities.Ticket, error) {
	query := `
		SELECT lottery_id, ticket_index, buyer, claimed, purchased_at
		FROM tickets
		WHERE lottery_id = $1 AND ($2::numeric IS NULL OR ticket_index > $2)
		ORDER BY ticket_index
		LIMIT $3
	`

	rows, err := r.q.Query(ctx, query, numericFromUint64(lotteryID), numericFromUint64Ptr(afterIndex), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets of lottery %d: %w", lotteryID, translateError(err, nil))
	}
	defer rows.Close()

	var tickets []*entities.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tickets: %w", err)
	}
	return tickets, nil
}

func scanTicket(row pgx.Row) (*entities.Ticket, error) {
	var ticket entities.Ticket
	var lotteryID, index pgtype.Numeric
	var buyer string

	if err := row.Scan(&lotteryID, &index, &buyer, &ticket.Claimed, &ticket.PurchasedAt); err != nil {
		return nil, err
	}
	err := decodeUint64s(
		numericTarget{"lottery_id", lotteryID, &ticket.LotteryID},
		numericTarget{"ticket_index", index, &ticket.TicketIndex},
	)
	if err != nil {
		return nil, err
	}
	ticket.Buyer = entities.Identity(buyer)
	return &ticket, nil
}
