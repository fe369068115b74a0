package infrastructure

import (
	"context"
	"errors"
	"testing"

	"lottoledger/events"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher records published events
type MockEventPublisher struct {
	PublishedEvents []events.Event
	PublishError    error
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	if m.PublishError != nil {
		return m.PublishError
	}
	m.PublishedEvents = append(m.PublishedEvents, event)
	return nil
}

func TestTransactionalPublisher_HoldsEventsUntilFlush(t *testing.T) {
	mockPublisher := &MockEventPublisher{}
	publisher := NewTransactionalPublisher(mockPublisher)

	first := events.TicketPurchasedEvent{LotteryID: 1, TicketIndex: 0, Buyer: "bob", Payment: 100, PrizePot: 100}
	second := events.TicketPurchasedEvent{LotteryID: 1, TicketIndex: 1, Buyer: "carol", Payment: 100, PrizePot: 200}

	require.NoError(t, publisher.Publish(first))
	require.NoError(t, publisher.Publish(second))

	assert.Empty(t, mockPublisher.PublishedEvents)
	assert.Equal(t, 2, publisher.Pending())

	require.NoError(t, publisher.Flush(context.Background()))

	assert.Equal(t, []events.Event{first, second}, mockPublisher.PublishedEvents)
	assert.Equal(t, 0, publisher.Pending())
}

func TestTransactionalPublisher_DiscardDropsEvents(t *testing.T) {
	mockPublisher := &MockEventPublisher{}
	publisher := NewTransactionalPublisher(mockPublisher)

	require.NoError(t, publisher.Publish(events.LotteryCreatedEvent{LotteryID: 3}))
	publisher.Discard()
	require.NoError(t, publisher.Flush(context.Background()))

	assert.Empty(t, mockPublisher.PublishedEvents)
}

func TestTransactionalPublisher_FlushSurvivesPublishErrors(t *testing.T) {
	mockPublisher := &MockEventPublisher{PublishError: errors.New("nats down")}
	publisher := NewTransactionalPublisher(mockPublisher)

	require.NoError(t, publisher.Publish(events.LotteryCreatedEvent{LotteryID: 3}))
	require.NoError(t, publisher.Publish(events.LotteryCreatedEvent{LotteryID: 4}))

	assert.NoError(t, publisher.Flush(context.Background()))
	assert.Equal(t, 0, publisher.Pending())
}

func TestTransactionalPublisher_FlushStopsOnCancelledContext(t *testing.T) {
	mockPublisher := &MockEventPublisher{}
	publisher := NewTransactionalPublisher(mockPublisher)
	require.NoError(t, publisher.Publish(events.LotteryCreatedEvent{LotteryID: 3}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, publisher.Flush(ctx), context.Canceled)
	assert.Empty(t, mockPublisher.PublishedEvents)
}

// cancelAfterPublish cancels the flush context once it has forwarded an event
type cancelAfterPublish struct {
	MockEventPublisher
	cancel context.CancelFunc
}

func (c *cancelAfterPublish) Publish(event events.Event) error {
	defer c.cancel()
	return c.MockEventPublisher.Publish(event)
}

func TestTransactionalPublisher_FlushReportsOnlyUnsentEventsAsDropped(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	realPublisher := &cancelAfterPublish{cancel: cancel}
	publisher := NewTransactionalPublisher(realPublisher)
	for id := uint64(1); id <= 3; id++ {
		require.NoError(t, publisher.Publish(events.LotteryCreatedEvent{LotteryID: id}))
	}

	assert.ErrorIs(t, publisher.Flush(ctx), context.Canceled)
	require.Len(t, realPublisher.PublishedEvents, 1)

	var dropped any
	for _, entry := range hook.AllEntries() {
		if entry.Message == "Context done while flushing events" {
			dropped = entry.Data["droppedCount"]
		}
	}
	assert.Equal(t, 2, dropped)
}
