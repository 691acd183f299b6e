package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanchez121994/foodgram-project-react/internal/config"
	httpDelivery "github.com/vanchez121994/foodgram-project-react/internal/delivery/http"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/events"
	"github.com/vanchez121994/foodgram-project-react/internal/testutil"
	"github.com/vanchez121994/foodgram-project-react/internal/testutil/memstore"
	"github.com/vanchez121994/foodgram-project-react/internal/validation"
	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
)

func memRepositories(store *memstore.Store) *Repositories {
	return &Repositories{
		Users:         store.Users(),
		Tags:          store.Tags(),
		Ingredients:   store.Ingredients(),
		Recipes:       store.Recipes(),
		Favorites:     store.Favorites(),
		ShoppingCart:  store.ShoppingCart(),
		Subscriptions: store.Subscriptions(),
	}
}

func TestSeedTagsThenServe(t *testing.T) {
	ctx := context.Background()
	repos := memRepositories(memstore.New())

	fixtures := []config.TagFixture{
		{Name: "Lunch", Color: "#49B64E", Slug: "lunch"},
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
	}
	seeder := ProvideSeedTagsHandler(repos, validation.New())
	require.NoError(t, SeedTags(ctx, seeder, fixtures))
	// reseeding is idempotent
	require.NoError(t, SeedTags(ctx, seeder, fixtures))
	require.NoError(t, SeedTags(ctx, seeder, nil))

	handler := NewHTTPHandler(
		repos,
		&testutil.ImageStore{},
		events.NopPublisher{},
		auth.NewTokenManager("test-secret-test-secret-test-secret", "foodgram", time.Hour),
		auth.NewDenylist(nil),
		httpDelivery.NewRateLimiter(nil, "ratelimit:login:", 10, time.Minute),
		httpDelivery.NewResponseCache(nil, httpDelivery.CatalogCachePrefix, time.Minute),
		httpDelivery.NewMetrics(prometheus.NewRegistry()),
		config.PaginationConfig{DefaultPageSize: 6, MaxPageSize: 100},
	)
	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var tags []domain.Tag
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tags))
	require.Len(t, tags, 2)
	assert.Equal(t, "Breakfast", tags[0].Name)
}

func TestSeedTagsRejectsInvalidFixtures(t *testing.T) {
	repos := memRepositories(memstore.New())
	seeder := ProvideSeedTagsHandler(repos, validation.New())

	err := SeedTags(context.Background(), seeder, []config.TagFixture{{Name: "Bad", Color: "red", Slug: "bad"}})
	require.Error(t, err)

	tags, err := repos.Tags.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestProvidePageSize(t *testing.T) {
	assert.Equal(t, httpDelivery.PageSize{Default: 6, Max: 100},
		ProvidePageSize(config.PaginationConfig{DefaultPageSize: 6, MaxPageSize: 100}))
}
