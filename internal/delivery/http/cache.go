package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
)

// CatalogCachePrefix namespaces cached catalog responses in Redis
const CatalogCachePrefix = "cache:catalog:"

// ResponseCache stores successful GET responses in Redis. A nil client disables it.
// Only responses that do not depend on the caller may be wrapped.
type ResponseCache struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

// NewResponseCache creates a new response cache
func NewResponseCache(redisClient *redis.Client, prefix string, ttl time.Duration) *ResponseCache {
	return &ResponseCache{redis: redisClient, prefix: prefix, ttl: ttl}
}

// Enabled reports whether responses are cached
func (c *ResponseCache) Enabled() bool {
	return c != nil && c.redis != nil && c.ttl > 0
}

// Middleware serves cached bodies and stores fresh 200 responses
func (c *ResponseCache) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !c.Enabled() || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		key := c.key(r)

		cached, err := c.redis.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			logger.Debug(ctx).Str("path", r.URL.Path).Msg("Cache hit")
			w.Header().Set("X-Cache", "HIT")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write(cached)
			return
		case !errors.Is(err, redis.Nil):
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Cache lookup failed")
		}

		rec := &bodyRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		w.Header().Set("X-Cache", "MISS")
		next.ServeHTTP(rec, r)

		if rec.statusCode != http.StatusOK {
			return
		}
		if err := c.redis.Set(ctx, key, rec.body.Bytes(), c.ttl).Err(); err != nil {
			logger.Warn(ctx).Err(err).Str("cache_key", key).Msg("Failed to cache response")
			return
		}
		logger.Debug(ctx).
			Str("path", r.URL.Path).
			Dur("ttl", c.ttl).
			Int("size", rec.body.Len()).
			Msg("Response cached")
	}
}

// Invalidate drops every cached response under the prefix
func (c *ResponseCache) Invalidate(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	var keys []string
	iter := c.redis.Scan(ctx, 0, c.prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}

	logger.Info(ctx).Int("count", len(keys)).Str("prefix", c.prefix).Msg("Cache invalidated")
	return nil
}

func (c *ResponseCache) key(r *http.Request) string {
	hash := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return c.prefix + hex.EncodeToString(hash[:])
}

// bodyRecorder copies the response body while writing it through
type bodyRecorder struct {
	http.ResponseWriter
	statusCode int
	body       bytes.Buffer
}

func (br *bodyRecorder) WriteHeader(code int) {
	br.statusCode = code
	br.ResponseWriter.WriteHeader(code)
}

func (br *bodyRecorder) Write(b []byte) (int, error) {
	br.body.Write(b)
	return br.ResponseWriter.Write(b)
}
