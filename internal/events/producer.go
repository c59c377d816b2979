package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkochetov/storefront/internal/config"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

const (
	EventOrderCreated         = "order.created"
	EventOrderStatusChanged   = "order.status_changed"
	EventOrderCancelled       = "order.cancelled"
	EventOrderReturnRequested = "order.return_requested"
)

// Envelope wraps every published order event.
type Envelope struct {
	EventID    string          `json:"event_id"`
	EventType  string          `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	OrderID    string          `json:"order_id"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

type Producer interface {
	Publish(ctx context.Context, eventType, orderID string, payload any) error
	Close() error
}

type kafkaProducer struct {
	logger *slog.Logger
	writer *kafka.Writer
}

func NewKafkaProducer(logger *slog.Logger, cfg config.Kafka) *kafkaProducer {
	return &kafkaProducer{
		logger: logger.With(slog.String("component", "events")),
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Brokers...),
			Topic:        cfg.Topic,
			Balancer:     &kafka.LeastBytes{},
			BatchTimeout: cfg.BatchTimeout,
		},
	}
}

// Publish keys messages by order id so events of one order stay ordered
// within a partition.
func (p *kafkaProducer) Publish(ctx context.Context, eventType, orderID string, payload any) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal event payload: %w", err)
		}
		raw = data
	}

	ev := Envelope{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		OccurredAt: time.Now().UTC(),
		OrderID:    orderID,
		Payload:    raw,
	}

	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(orderID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "x-event-type", Value: []byte(eventType)},
		},
	})
}

func (p *kafkaProducer) Close() error {
	return p.writer.Close()
}

// NopProducer is installed when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, string, string, any) error { return nil }
func (NopProducer) Close() error                                       { return nil }
