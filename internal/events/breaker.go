package events

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// BreakerConfig controls when the publisher stops calling the broker
type BreakerConfig struct {
	FailureThreshold uint32
	// OpenTimeout is how long the breaker stays open before probing again
	OpenTimeout time.Duration
}

// DefaultBreakerConfig trips after 5 consecutive failures for 30 seconds
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, OpenTimeout: 30 * time.Second}
}

// BreakerPublisher short-circuits publishing while the broker keeps failing,
// so writes do not wait on producer timeouts.
type BreakerPublisher struct {
	next    domain.EventPublisher
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewBreakerPublisher wraps next with a circuit breaker
func NewBreakerPublisher(next domain.EventPublisher, cfg BreakerConfig) *BreakerPublisher {
	settings := gobreaker.Settings{
		Name:        "event-publisher",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	}
	return &BreakerPublisher{
		next:    next,
		breaker: gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Publish forwards the event unless the breaker is open
func (p *BreakerPublisher) Publish(ctx context.Context, event domain.Event) error {
	_, err := p.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, p.next.Publish(ctx, event)
	})
	return err
}

// State reports the breaker state for logs and tests
func (p *BreakerPublisher) State() string {
	return p.breaker.State().String()
}
