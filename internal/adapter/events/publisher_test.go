package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/polkiloo/ikanmart/internal/config"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

type recordingWriter struct {
	messages []kafka.Message
	err      error
	closed   bool
}

func (w *recordingWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.messages = append(w.messages, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func stubWriter(t *testing.T) *recordingWriter {
	t.Helper()
	w := &recordingWriter{}
	original := newWriter
	newWriter = func([]string, string) messageWriter { return w }
	t.Cleanup(func() { newWriter = original })
	return w
}

func sampleEvent() model.StatusEvent {
	return model.StatusEvent{
		EventID:    "e1",
		OrderID:    "o1",
		SellerID:   "s1",
		From:       model.OrderStatusPending,
		To:         model.OrderStatusConfirmed,
		OccurredAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestPublishStatusChangedWritesEnvelope(t *testing.T) {
	w := stubWriter(t)
	p := NewPublisher([]string{"k1:9092"}, "order-status-changed", testLogger())

	require.NoError(t, p.PublishStatusChanged(context.Background(), sampleEvent()))
	require.Len(t, w.messages, 1)

	msg := w.messages[0]
	require.Equal(t, "o1", string(msg.Key))
	require.Equal(t, "event_type", msg.Headers[0].Key)

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	require.Equal(t, "e1", env.EventID)
	require.Equal(t, EventOrderStatusChanged, env.EventType)
	require.Equal(t, 1, env.EventVersion)
	require.Equal(t, "ikanmart", env.Producer)
	require.Equal(t, "o1", env.CorrelationID)

	var payload StatusChangedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	require.Equal(t, StatusChangedPayload{OrderID: "o1", SellerID: "s1", From: "pending", To: "confirmed"}, payload)
}

func TestPublishStatusChangedWrapsWriterError(t *testing.T) {
	w := stubWriter(t)
	w.err = errors.New("leader not available")
	p := NewPublisher([]string{"k1:9092"}, "orders", testLogger())

	err := p.PublishStatusChanged(context.Background(), sampleEvent())
	require.ErrorIs(t, err, w.err)
	require.Contains(t, err.Error(), "orders")
}

func TestPublisherWithoutBrokersDropsEvents(t *testing.T) {
	p := NewPublisher(nil, "orders", testLogger())
	require.NoError(t, p.PublishStatusChanged(context.Background(), sampleEvent()))
	require.NoError(t, p.Close())
}

func TestModuleClosesWriterOnStop(t *testing.T) {
	w := stubWriter(t)

	var publisher usecase.EventPublisher
	app := fxtest.New(t,
		fx.Supply(&config.Config{KafkaBrokers: []string{"k1:9092"}, OrderEventsTopic: "orders"}),
		fx.Supply(testLogger()),
		Module,
		fx.Populate(&publisher),
	)
	app.RequireStart()
	require.NoError(t, publisher.PublishStatusChanged(context.Background(), sampleEvent()))
	app.RequireStop()

	require.Len(t, w.messages, 1)
	require.True(t, w.closed)
}
