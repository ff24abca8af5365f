package events

import (
	"context"
	"strconv"

	"staybook/pkg/kafka"
	kafka_config "staybook/pkg/kafka/config"
)

// Publisher emits domain events. Publishing is best-effort: callers log
// failures and never fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, rentalID int, eventType string, payload any) error
	Close() error
}

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

// NewKafkaPublisher builds a Publisher over the shared inventory topic.
// Events are keyed by rental id so per-rental ordering survives partitioning.
func NewKafkaPublisher(cfg *kafka_config.Config, source string) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, Topic, DLQTopic)
	if err != nil {
		return nil, err
	}

	return &kafkaPublisher{
		producer: producer,
		source:   source,
	}, nil
}

func (p *kafkaPublisher) Publish(ctx context.Context, rentalID int, eventType string, payload any) error {
	msg := kafka.NewMessage().
		WithKey(strconv.Itoa(rentalID)).
		WithValue(payload).
		WithEventType(eventType).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		Build()

	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}

type nopPublisher struct{}

// NewNopPublisher is used when Kafka is disabled.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(ctx context.Context, rentalID int, eventType string, payload any) error {
	return nil
}

func (nopPublisher) Close() error {
	return nil
}
