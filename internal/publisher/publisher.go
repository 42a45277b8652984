package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/tringuyen-psa/shopify-shop-sub004/domain"
)

// EventPublisher announces materialized orders to downstream consumers
// (notifications, fulfillment). Publishing is best-effort: the caller
// logs failures and never fails the checkout because of them.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *domain.Order) error
	Close() error
}

type KafkaPublisher struct {
	writer *kafka.Writer
	log    *slog.Logger
}

func NewKafkaPublisher(brokers []string, topic string, log *slog.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w, log: log}
}

func (p *KafkaPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	payload := map[string]interface{}{
		"event":        "order.created",
		"order_id":     order.ID,
		"order_number": order.OrderNumber,
		"session_id":   order.SourceSessionID,
		"user_id":      order.UserID,
		"amount":       order.Amount,
		"currency":     order.Currency,
		"created_at":   order.CreatedAt.UTC().Format(time.RFC3339Nano),
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(order.ID),
		Value: value,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write order event: %w", err)
	}

	p.log.Info("published order event",
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber))
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher is used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishOrderCreated(context.Context, *domain.Order) error { return nil }
func (NoopPublisher) Close() error                                             { return nil }
