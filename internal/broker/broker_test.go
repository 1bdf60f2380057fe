package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"storefront-service/internal/models"
	"storefront-service/internal/util"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func sampleEvent() *models.OrderPlacedEvent {
	return &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   "evt-1",
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		},
		OrderID:   "order-1",
		SessionID: "sid",
		ItemCount: 3,
		Subtotal:  28200,
		Items: []models.OrderItemData{
			{ProductID: "lumen-hoodie", Quantity: 3, UnitPrice: 9400},
		},
	}
}

func TestPublishOrderPlaced(t *testing.T) {
	w := &recordingWriter{}
	p := &Producer{writer: w, logger: util.GetLogger()}
	ep := NewEventPublisher(p)

	require.NoError(t, ep.PublishOrderPlaced(context.Background(), sampleEvent()))

	require.Len(t, w.messages, 1)
	assert.Equal(t, "order-order-1", string(w.messages[0].Key))

	var decoded models.OrderPlacedEvent
	require.NoError(t, json.Unmarshal(w.messages[0].Value, &decoded))
	assert.Equal(t, *sampleEvent(), decoded)
}

func TestPublishWrapsWriterError(t *testing.T) {
	w := &recordingWriter{err: errors.New("leader not available")}
	p := &Producer{writer: w, logger: util.GetLogger()}

	err := p.PublishEvent(context.Background(), "k", sampleEvent())
	assert.ErrorContains(t, err, "leader not available")
}

func TestHandleMessageRoutesOrderPlaced(t *testing.T) {
	value, err := json.Marshal(sampleEvent())
	require.NoError(t, err)

	var got *models.OrderPlacedEvent
	h := NewEventHandler()
	h.OnOrderPlaced(func(_ context.Context, e *models.OrderPlacedEvent) error {
		got = e
		return nil
	})

	require.NoError(t, h.HandleMessage(context.Background(), kafka.Message{Value: value}))
	require.NotNil(t, got)
	assert.Equal(t, "order-1", got.OrderID)
	assert.Equal(t, int64(28200), got.Subtotal)
}

func TestHandleMessageIgnoresUnknownTypes(t *testing.T) {
	h := NewEventHandler()
	called := false
	h.OnOrderPlaced(func(context.Context, *models.OrderPlacedEvent) error {
		called = true
		return nil
	})

	err := h.HandleMessage(context.Background(), kafka.Message{Value: []byte(`{"event_type":"ORDER_SHIPPED"}`)})
	assert.NoError(t, err)
	assert.False(t, called)
}

func TestHandleMessageRejectsInvalidJSON(t *testing.T) {
	err := NewEventHandler().HandleMessage(context.Background(), kafka.Message{Value: []byte("not json")})
	assert.Error(t, err)
}
