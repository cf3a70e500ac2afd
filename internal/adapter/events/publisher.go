package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// messageWriter is the subset of *kafka.Writer used by Publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

var newWriter = func(brokers []string, topic string) messageWriter {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// Publisher writes order status events keyed by order id so all events of
// one order land on the same partition in order.
type Publisher struct {
	writer messageWriter
	topic  string
	logger *slog.Logger
}

// NewPublisher creates a publisher. Without brokers events are dropped.
func NewPublisher(brokers []string, topic string, logger *slog.Logger) *Publisher {
	p := &Publisher{topic: topic, logger: logger}
	if len(brokers) == 0 {
		logger.Info("kafka disabled, order events are not published")
		return p
	}
	p.writer = newWriter(brokers, topic)
	return p
}

// PublishStatusChanged writes one OrderStatusChanged event.
func (p *Publisher) PublishStatusChanged(ctx context.Context, event model.StatusEvent) error {
	if p.writer == nil {
		return nil
	}

	msg, err := statusMessage(event)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", EventOrderStatusChanged, p.topic, err)
	}
	p.logger.Debug("order event published",
		slog.String("event_id", event.EventID),
		slog.String("order_id", event.OrderID),
		slog.String("to", string(event.To)),
	)
	return nil
}

// Close flushes pending writes.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func statusMessage(event model.StatusEvent) (kafka.Message, error) {
	payload, err := json.Marshal(StatusChangedPayload{
		OrderID:  event.OrderID,
		SellerID: event.SellerID,
		From:     string(event.From),
		To:       string(event.To),
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode payload: %w", err)
	}

	value, err := json.Marshal(Envelope{
		EventID:       event.EventID,
		EventType:     EventOrderStatusChanged,
		EventVersion:  eventVersion,
		OccurredAt:    event.OccurredAt.UTC(),
		Producer:      producerName,
		CorrelationID: event.OrderID,
		Payload:       payload,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode envelope: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(EventOrderStatusChanged)},
		},
	}, nil
}
