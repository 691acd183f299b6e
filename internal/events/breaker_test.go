package events

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/testutil"
)

func TestBreakerPublisherOpensAfterConsecutiveFailures(t *testing.T) {
	inner := &testutil.EventRecorder{Err: testutil.ErrBrokerDown}
	publisher := NewBreakerPublisher(inner, BreakerConfig{FailureThreshold: 2, OpenTimeout: time.Hour})
	ctx := context.Background()
	event := domain.Event{ID: "evt-1", Type: domain.EventRecipeDeleted, RecipeID: 1}

	assert.ErrorIs(t, publisher.Publish(ctx, event), testutil.ErrBrokerDown)
	assert.ErrorIs(t, publisher.Publish(ctx, event), testutil.ErrBrokerDown)
	assert.Equal(t, "open", publisher.State())

	inner.Err = nil
	err := publisher.Publish(ctx, event)
	assert.True(t, errors.Is(err, gobreaker.ErrOpenState))
	assert.Empty(t, inner.Events(), "open breaker must not reach the broker")
}

func TestBreakerPublisherRecovers(t *testing.T) {
	inner := &testutil.EventRecorder{Err: testutil.ErrBrokerDown}
	publisher := NewBreakerPublisher(inner, BreakerConfig{FailureThreshold: 1, OpenTimeout: 10 * time.Millisecond})
	ctx := context.Background()
	event := domain.Event{ID: "evt-1", Type: domain.EventAuthorSubscribed, AuthorID: 3}

	assert.Error(t, publisher.Publish(ctx, event))
	assert.Equal(t, "open", publisher.State())

	inner.Err = nil
	time.Sleep(20 * time.Millisecond)
	assert.NoError(t, publisher.Publish(ctx, event))
	assert.Equal(t, "closed", publisher.State())
	assert.Equal(t, []string{domain.EventAuthorSubscribed}, inner.Types())
}
