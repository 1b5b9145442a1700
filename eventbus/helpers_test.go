package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	RunID string `json:"run_id"`
	Rows  int    `json:"rows"`
}

// memoryBus delivers published events to the registered handler synchronously.
type memoryBus struct {
	handler EventHandler
}

func (m *memoryBus) Publish(ctx context.Context, _ string, event Event) error {
	if m.handler == nil {
		return errors.New("no subscriber")
	}
	return m.handler(ctx, event)
}

func (m *memoryBus) Subscribe(_ context.Context, _ string, _ Topic, handler EventHandler) error {
	m.handler = handler
	return nil
}

func (m *memoryBus) Close() {}

func TestNewJSONEventRoundTrip(t *testing.T) {
	evt, err := NewJSONEvent("", "digest.completed", payload{RunID: "r1", Rows: 6})
	require.NoError(t, err)

	assert.NotEmpty(t, evt.ID)
	assert.Equal(t, "digest.completed", evt.Type)

	got, err := DecodeJSON[payload](evt)
	require.NoError(t, err)
	assert.Equal(t, payload{RunID: "r1", Rows: 6}, got)
}

func TestDecodeJSONError(t *testing.T) {
	_, err := DecodeJSON[payload](Event{Payload: []byte(`{"rows":"x"}`)})
	assert.Error(t, err)
}

func TestSubscribeJSON(t *testing.T) {
	bus := &memoryBus{}
	var got payload
	var meta Event
	require.NoError(t, SubscribeJSON(context.Background(), bus, "g", NewTopic("t"),
		func(_ context.Context, p payload, m Event) error {
			got, meta = p, m
			return nil
		}))

	evt, err := NewJSONEvent("evt-1", "digest.completed", payload{RunID: "r2"})
	require.NoError(t, err)
	require.NoError(t, bus.Publish(context.Background(), "t", evt))

	assert.Equal(t, "r2", got.RunID)
	assert.Equal(t, "evt-1", meta.ID)
}
