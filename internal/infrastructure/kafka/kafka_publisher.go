package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/panterex-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageWriter is the part of kafka.Writer the publisher needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type DefaultKafkaPublisher struct {
	writer MessageWriter
	topic  string
	logger *zap.Logger
}

func NewDefaultKafkaPublisher(brokers []string, topic string, logger *zap.Logger) *DefaultKafkaPublisher {
	return NewKafkaPublisherWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}, topic, logger)
}

func NewKafkaPublisherWithWriter(writer MessageWriter, topic string, logger *zap.Logger) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{
		writer: writer,
		topic:  topic,
		logger: logger.Named("kafka"),
	}
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
			Topic: k.topic,
		})
	}

	return k.writer.WriteMessages(ctx, km...)
}

// PublishRateObserved sends one event per observation, keyed by currency pair
// so a partition keeps the order of a pair.
func (k *DefaultKafkaPublisher) PublishRateObserved(ctx context.Context, observations ...*domain.RateObservation) error {
	if len(observations) == 0 {
		return nil
	}

	msgs := make([]domain.Message, 0, len(observations))
	for _, observation := range observations {
		event := NewRateObservedEvent(observation)
		v, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal rate event %s: %w", event.CurrencyPair, err)
		}
		msgs = append(msgs, domain.Message{Key: []byte(event.CurrencyPair), Value: v})
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := k.Publish(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write rate events: %w", err)
	}

	k.logger.Debug("rate events published", zap.Int("count", len(msgs)), zap.String("topic", k.topic))
	return nil
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}

// NoopPublisher is used when kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) PublishRateObserved(context.Context, ...*domain.RateObservation) error {
	return nil
}
