package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingEventHandler_Decodes(t *testing.T) {
	event := BookingEvent{
		ID:          "evt-1",
		Type:        EventBookingConfirmed,
		BookingID:   12,
		Email:       "guest@example.com",
		TotalAmount: decimal.RequireFromString("2000"),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	var got BookingEvent
	handler := BookingEventHandler(func(_ context.Context, e BookingEvent) error {
		got = e
		return nil
	})

	require.NoError(t, handler(context.Background(), kafka.Message{Value: payload}))
	assert.Equal(t, int64(12), got.BookingID)
	assert.Equal(t, EventBookingConfirmed, got.Type)
	assert.True(t, decimal.RequireFromString("2000").Equal(got.TotalAmount))
}

func TestBookingEventHandler_SkipsGarbage(t *testing.T) {
	called := false
	handler := BookingEventHandler(func(_ context.Context, e BookingEvent) error {
		called = true
		return nil
	})

	assert.NoError(t, handler(context.Background(), kafka.Message{Value: []byte("{not json")}))
	assert.False(t, called)
}

func TestConsumer_CloseNil(t *testing.T) {
	var c *Consumer
	assert.NoError(t, c.Close())
}
