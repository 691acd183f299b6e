//go:build integration

package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
)

var testRedis *goredis.Client

func TestMain(m *testing.M) {
	os.Exit(runWithRedis(m))
}

func runWithRedis(m *testing.M) int {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start Redis container: %v\n", err)
		return 1
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate container: %v\n", err)
		}
	}()

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
		return 1
	}
	opts, err := goredis.ParseURL(uri)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse redis url: %v\n", err)
		return 1
	}
	testRedis = goredis.NewClient(opts)
	defer testRedis.Close()

	return m.Run()
}

func flushRedis(t *testing.T) {
	t.Helper()
	require.NoError(t, testRedis.FlushDB(context.Background()).Err())
}

func TestRateLimiter_Redis(t *testing.T) {
	flushRedis(t)
	limiter := NewRateLimiter(testRedis, "ratelimit:login:", 2, time.Minute)
	h := limiter.Middleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/token/login/", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		rec := httptest.NewRecorder()
		h(rec, req)
		codes = append(codes, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// other clients have their own window
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token/login/", nil)
	req.RemoteAddr = "192.0.2.11:4000"
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestResponseCache_Redis(t *testing.T) {
	flushRedis(t)
	ctx := context.Background()
	cache := NewResponseCache(testRedis, CatalogCachePrefix, time.Minute)

	calls := 0
	h := cache.Middleware(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("name") == "missing" {
			respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found"})
			return
		}
		respondJSON(w, http.StatusOK, []string{"salt"})
	})

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	first := get("/api/ingredients/?name=sa")
	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	second := get("/api/ingredients/?name=sa")
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())
	assert.Equal(t, 1, calls)

	get("/api/ingredients/?name=su")
	assert.Equal(t, 2, calls)

	get("/api/ingredients/?name=missing")
	get("/api/ingredients/?name=missing")
	assert.Equal(t, 4, calls, "non-200 responses are not cached")

	require.NoError(t, cache.Invalidate(ctx))
	assert.Equal(t, "MISS", get("/api/ingredients/?name=sa").Header().Get("X-Cache"))
	assert.Equal(t, 5, calls)
}

func TestDenylist_Redis(t *testing.T) {
	flushRedis(t)
	ctx := context.Background()
	denylist := auth.NewDenylist(testRedis)

	revoked, err := denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, denylist.Revoke(ctx, "token-1", time.Now().Add(time.Hour)))
	revoked, err = denylist.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := testRedis.TTL(ctx, "auth:revoked:token-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 59*time.Minute)
}
