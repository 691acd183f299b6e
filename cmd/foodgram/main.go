package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vanchez121994/foodgram-project-react/internal/app"
	"github.com/vanchez121994/foodgram-project-react/internal/config"
	httpDelivery "github.com/vanchez121994/foodgram-project-react/internal/delivery/http"
	"github.com/vanchez121994/foodgram-project-react/internal/domain"
	"github.com/vanchez121994/foodgram-project-react/internal/events"
	"github.com/vanchez121994/foodgram-project-react/internal/imagestore"
	"github.com/vanchez121994/foodgram-project-react/internal/repository"
	"github.com/vanchez121994/foodgram-project-react/internal/validation"
	"github.com/vanchez121994/foodgram-project-react/pkg/auth"
	"github.com/vanchez121994/foodgram-project-react/pkg/database"
	"github.com/vanchez121994/foodgram-project-react/pkg/logger"
	"github.com/vanchez121994/foodgram-project-react/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger is not configured yet
		logger.Init(logger.Config{Service: "foodgram", Development: true})
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(logger.Config{
		Service:     cfg.Tracing.ServiceName,
		Level:       cfg.Logging.Level,
		Development: cfg.Server.IsDevelopment(),
	})

	if err := run(cfg); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Server stopped with error")
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracing.Shutdown(shutdownCtx, tp); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to flush traces")
		}
	}()

	db, err := database.NewGormConnection(ctx, cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if err := repository.AutoMigrate(db); err != nil {
		return err
	}

	repos := app.ProvideRepositories(db)
	if err := app.SeedTags(ctx, app.ProvideSeedTagsHandler(repos, validation.New()), cfg.Fixtures.Tags); err != nil {
		return err
	}

	redisClient, err := newRedisClient(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher, closePublisher, err := newPublisher(cfg.Kafka)
	if err != nil {
		return err
	}
	defer closePublisher()

	images, err := imagestore.New(imagestore.Config{
		Root:      cfg.Media.Root,
		URL:       cfg.Media.URL,
		MaxWidth:  cfg.Media.MaxWidth,
		MaxBytes:  cfg.Media.MaxBytes,
		MaxPixels: cfg.Media.MaxPixels,
	})
	if err != nil {
		return err
	}

	catalogCache := httpDelivery.NewResponseCache(redisClient, httpDelivery.CatalogCachePrefix, cfg.Redis.CatalogCacheTTL)
	// fixtures may have changed the catalog
	if err := catalogCache.Invalidate(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("Failed to invalidate catalog cache")
	}

	health := httpDelivery.NewHealthChecker(2 * time.Second)
	health.Register("postgres", sqlDB.PingContext)
	if redisClient != nil {
		health.Register("redis", func(ctx context.Context) error { return redisClient.Ping(ctx).Err() })
	}

	trustedProxies, err := httpDelivery.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}
	loginLimiter := httpDelivery.NewRateLimiter(redisClient, "ratelimit:login:", cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow).
		WithTrustedProxies(trustedProxies)

	handler := app.NewHTTPHandler(
		repos,
		images,
		publisher,
		auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenTTL),
		auth.NewDenylist(redisClient),
		loginLimiter,
		catalogCache,
		httpDelivery.NewMetrics(prometheus.DefaultRegisterer),
		cfg.Pagination,
	)

	middlewares := httpDelivery.DefaultMiddlewareConfig(cfg.Server.CORSOrigins)
	middlewares.EnableTracing = cfg.Tracing.Enabled

	router := mux.NewRouter()
	httpDelivery.RegisterMiddlewares(router, middlewares)
	handler.RegisterRoutes(router)
	router.HandleFunc("/health", httpDelivery.HealthCheck).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", health.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler())
	router.PathPrefix(images.Prefix()).Handler(images.Handler()).Methods(http.MethodGet, http.MethodHead)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpDelivery.SetupCORS(middlewares)(router),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Logger.Info().
			Str("port", cfg.Server.Port).
			Str("environment", cfg.Server.Environment).
			Bool("redis", redisClient != nil).
			Bool("kafka", cfg.Kafka.Enabled).
			Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Logger.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newRedisClient returns nil when Redis is disabled
func newRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		logger.Logger.Warn().Msg("Redis disabled: login rate limiting and token revocation are off")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	logger.Logger.Info().Str("addr", cfg.Addr).Msg("Connected to Redis")
	return client, nil
}

func newPublisher(cfg config.KafkaConfig) (domain.EventPublisher, func(), error) {
	if !cfg.Enabled {
		return events.NopPublisher{}, func() {}, nil
	}

	publisher, err := events.NewKafkaPublisher(cfg.Brokers, cfg.Topic)
	if err != nil {
		return nil, nil, err
	}
	return events.NewBreakerPublisher(publisher, events.DefaultBreakerConfig()), func() {
		if err := publisher.Close(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Failed to close Kafka publisher")
		}
	}, nil
}

