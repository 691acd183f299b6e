// Package events delivers domain events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// Header keys set on every message next to the trace context
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// KafkaPublisher implements domain.EventPublisher with a synchronous producer
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

// NewKafkaPublisher connects to the brokers and publishes to topic
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.Timeout = 5 * time.Second
	config.Net.DialTimeout = 5 * time.Second

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Str("topic", topic).
		Msg("Kafka publisher initialized")

	return NewKafkaPublisherWithProducer(producer, topic), nil
}

// NewKafkaPublisherWithProducer wraps an existing producer
func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

// Publish sends the event as JSON, keyed by the entity it concerns
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+event.Type,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", p.topic),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", event.Type),
			attribute.String("event.id", event.ID),
			attribute.Int64("user.id", int64(event.UserID)),
		),
	)
	defer span.End()

	msg, err := p.message(ctx, event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return err
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published")

	logger.Debug(ctx).
		Str("event_id", event.ID).
		Str("event_type", event.Type).
		Str("topic", p.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Event published")

	return nil
}

func (p *KafkaPublisher) message(ctx context.Context, event domain.Event) (*sarama.ProducerMessage, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)

	headers := []sarama.RecordHeader{
		{Key: []byte(HeaderEventType), Value: []byte(event.Type)},
		{Key: []byte(HeaderEventID), Value: []byte(event.ID)},
	}
	for key, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(key), Value: []byte(v)})
	}

	return &sarama.ProducerMessage{
		Topic:   p.topic,
		Key:     sarama.StringEncoder(partitionKey(event)),
		Value:   sarama.ByteEncoder(value),
		Headers: headers,
	}, nil
}

// partitionKey keeps all events of one recipe (or one author) in order
func partitionKey(event domain.Event) string {
	switch {
	case event.RecipeID != 0:
		return fmt.Sprintf("recipe_%d", event.RecipeID)
	case event.AuthorID != 0:
		return fmt.Sprintf("author_%d", event.AuthorID)
	default:
		return fmt.Sprintf("user_%d", event.UserID)
	}
}

// Close closes the Kafka producer
func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NopPublisher drops every event. It is used when Kafka is disabled.
type NopPublisher struct{}

// Publish does nothing
func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }

// Close does nothing
func (NopPublisher) Close() error { return nil }
