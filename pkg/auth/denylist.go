package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Denylist records revoked token ids in Redis until the token would expire anyway.
// A nil client disables revocation.
type Denylist struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewDenylist creates a Redis-backed denylist
func NewDenylist(client *redis.Client) *Denylist {
	return &Denylist{client: client, prefix: "auth:revoked:", now: time.Now}
}

// Enabled reports whether revocations are persisted
func (d *Denylist) Enabled() bool {
	return d != nil && d.client != nil
}

// Revoke denies tokenID until expiresAt
func (d *Denylist) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if !d.Enabled() {
		return nil
	}
	ttl := expiresAt.Sub(d.now())
	if ttl <= 0 {
		return nil
	}
	if err := d.client.Set(ctx, d.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether tokenID has been revoked
func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !d.Enabled() {
		return false, nil
	}
	err := d.client.Get(ctx, d.prefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token: %w", err)
	}
	return true, nil
}
