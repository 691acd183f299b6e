package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
)

func headerMap(msg *sarama.ProducerMessage) map[string]string {
	out := map[string]string{}
	for _, h := range msg.Headers {
		out[string(h.Key)] = string(h.Value)
	}
	return out
}

func TestPublishSendsJSONWithHeaders(t *testing.T) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	}))

	event := domain.Event{
		ID:         "evt-1",
		Type:       domain.EventRecipeCreated,
		UserID:     7,
		RecipeID:   42,
		OccurredAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}

	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "foodgram-events" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, _ := msg.Key.Encode()
		if string(key) != "recipe_42" {
			return errors.New("unexpected key " + string(key))
		}
		return nil
	})

	var sent *sarama.ProducerMessage
	p := NewKafkaPublisherWithProducer(&capturing{SyncProducer: producer, last: &sent}, "foodgram-events")
	require.NoError(t, p.Publish(ctx, event))
	require.NoError(t, p.Close())

	require.NotNil(t, sent)
	headers := headerMap(sent)
	assert.Equal(t, domain.EventRecipeCreated, headers[HeaderEventType])
	assert.Equal(t, "evt-1", headers[HeaderEventID])
	assert.Contains(t, headers["traceparent"], "4bf92f3577b34da6a3ce929d0e0e4736")

	raw, err := sent.Value.Encode()
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "recipe.created", decoded["event_type"])
	assert.Equal(t, float64(42), decoded["recipe_id"])
	assert.Equal(t, float64(7), decoded["user_id"])
	assert.NotContains(t, decoded, "author_id")
}

func TestPublishReturnsSendError(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	p := NewKafkaPublisherWithProducer(producer, "foodgram-events")
	err := p.Publish(context.Background(), domain.Event{ID: "e", Type: domain.EventRecipeDeleted, RecipeID: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestPartitionKey(t *testing.T) {
	assert.Equal(t, "recipe_3", partitionKey(domain.Event{UserID: 1, RecipeID: 3}))
	assert.Equal(t, "author_5", partitionKey(domain.Event{UserID: 1, AuthorID: 5}))
	assert.Equal(t, "user_1", partitionKey(domain.Event{UserID: 1}))
}

func TestNopPublisher(t *testing.T) {
	var p domain.EventPublisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), domain.Event{Type: domain.EventRecipeCreated}))
	assert.NoError(t, NopPublisher{}.Close())
}

// capturing records the last message handed to the wrapped producer
type capturing struct {
	sarama.SyncProducer
	last **sarama.ProducerMessage
}

func (c *capturing) SendMessage(msg *sarama.ProducerMessage) (int32, int64, error) {
	*c.last = msg
	return c.SyncProducer.SendMessage(msg)
}
