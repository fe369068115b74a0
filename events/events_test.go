package events

import (
	"context"
	"testing"

	"lottoledger/domain/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_DispatchesByType(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	var drawn []WinnerDrawnEvent
	var claimed int
	bus.Subscribe(EventTypeWinnerDrawn, func(ctx context.Context, event Event) {
		e, ok := event.(WinnerDrawnEvent)
		require.True(t, ok)
		drawn = append(drawn, e)
	})
	bus.Subscribe(EventTypePrizeClaimed, func(ctx context.Context, event Event) {
		claimed++
	})

	require.NoError(t, bus.Publish(WinnerDrawnEvent{LotteryID: 0, WinnerTicketIndex: 1, TicketCount: 3}))
	require.NoError(t, bus.Publish(TicketPurchasedEvent{LotteryID: 0, Buyer: "bob"}))

	require.Len(t, drawn, 1)
	assert.Equal(t, uint64(1), drawn[0].WinnerTicketIndex)
	assert.Zero(t, claimed)
}

func TestBus_HandlerPanicDoesNotStopOthers(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	called := false

	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		panic("handler failure")
	})
	bus.Subscribe(EventTypeBalanceChange, func(ctx context.Context, event Event) {
		called = true
	})

	bus.Emit(context.Background(), BalanceChangeEvent{
		Identity:        "bob",
		OldBalance:      100,
		NewBalance:      400,
		TransactionType: entities.TransactionTypeLotteryPrize,
	})

	assert.True(t, called)
}

func TestEventTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		event Event
		want  EventType
	}{
		{LotteryCreatedEvent{}, EventTypeLotteryCreated},
		{TicketPurchasedEvent{}, EventTypeTicketPurchased},
		{WinnerDrawnEvent{}, EventTypeWinnerDrawn},
		{PrizeClaimedEvent{}, EventTypePrizeClaimed},
		{BalanceChangeEvent{}, EventTypeBalanceChange},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.Type())
	}
}
