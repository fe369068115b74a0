package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"lottoledger/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedMessage struct {
	subject string
	data    []byte
}

type fakeSubjectPublisher struct {
	messages []capturedMessage
	err      error
}

func (f *fakeSubjectPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, capturedMessage{subject: subject, data: data})
	return nil
}

func TestNATSEventPublisher_WrapsEventInEnvelope(t *testing.T) {
	client := &fakeSubjectPublisher{}
	publisher := newEventPublisher(client, NewEventSubjectMapper())
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	publisher.now = func() time.Time { return fixed }

	event := events.WinnerDrawnEvent{
		LotteryID:         1,
		WinnerTicketIndex: 1,
		TicketCount:       3,
		PrizePot:          300,
		Seed:              7,
		Source:            "fixed",
	}
	require.NoError(t, publisher.Publish(event))
	require.Len(t, client.messages, 1)
	assert.Equal(t, "lottery.drawn", client.messages[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(client.messages[0].data, &envelope))
	assert.Equal(t, "winner_drawn", envelope.EventType)
	assert.Equal(t, "lottoledger", envelope.SourceService)
	assert.True(t, envelope.Timestamp.Equal(fixed))
	_, err := uuid.Parse(envelope.EventID)
	assert.NoError(t, err)

	var payload events.WinnerDrawnEvent
	require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
	assert.Equal(t, event, payload)
}

func TestNATSEventPublisher_PropagatesClientError(t *testing.T) {
	client := &fakeSubjectPublisher{err: errors.New("no responders")}
	publisher := newEventPublisher(client, NewEventSubjectMapper())

	err := publisher.Publish(events.LotteryCreatedEvent{LotteryID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no responders")
}

func TestNATSEventPublisher_EnsureEventStreamRequiresClient(t *testing.T) {
	publisher := newEventPublisher(&fakeSubjectPublisher{}, NewEventSubjectMapper())
	assert.Error(t, publisher.EnsureEventStream())
}
