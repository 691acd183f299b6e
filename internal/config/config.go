package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/vanchez121994/foodgram-project-react/pkg/database"
	"github.com/vanchez121994/foodgram-project-react/pkg/tracing"
)

// Config is the complete service configuration
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   database.Config  `koanf:"database"`
	Auth       AuthConfig       `koanf:"auth"`
	Redis      RedisConfig      `koanf:"redis"`
	Kafka      KafkaConfig      `koanf:"kafka"`
	Tracing    tracing.Config   `koanf:"tracing"`
	Logging    LoggingConfig    `koanf:"logging"`
	Media      MediaConfig      `koanf:"media"`
	Pagination PaginationConfig `koanf:"pagination"`
	Fixtures   FixturesConfig   `koanf:"fixtures"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `koanf:"port"`
	Environment     string        `koanf:"environment"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
	// TrustedProxies lists CIDRs or addresses allowed to set X-Forwarded-For
	TrustedProxies  []string      `koanf:"trusted_proxies"`
}

// IsDevelopment reports whether the service runs in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// AuthConfig holds token and login throttling settings
type AuthConfig struct {
	JWTSecret       string        `koanf:"jwt_secret"`
	Issuer          string        `koanf:"issuer"`
	TokenTTL        time.Duration `koanf:"token_ttl"`
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

// RedisConfig holds the Redis connection used for rate limiting, token revocation
// and the catalog response cache
type RedisConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Addr            string        `koanf:"addr"`
	Password        string        `koanf:"password"`
	DB              int           `koanf:"db"`
	CatalogCacheTTL time.Duration `koanf:"catalog_cache_ttl"`
}

// KafkaConfig holds the domain event publisher settings
type KafkaConfig struct {
	Enabled bool     `koanf:"enabled"`
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level string `koanf:"level"`
}

// MediaConfig holds image storage settings
type MediaConfig struct {
	Root      string `koanf:"root"`
	URL       string `koanf:"url"`
	MaxWidth  int    `koanf:"max_width"`
	MaxBytes  int64  `koanf:"max_bytes"`
	MaxPixels int    `koanf:"max_pixels"`
}

// PaginationConfig holds page size limits
type PaginationConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// FixturesConfig lists reference data loaded at startup
type FixturesConfig struct {
	Tags []TagFixture `koanf:"tags"`
}

// TagFixture is one tag to upsert at startup
type TagFixture struct {
	Name  string `koanf:"name"`
	Color string `koanf:"color"`
	Slug  string `koanf:"slug"`
}

// Validate checks settings that have no safe default
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if c.Auth.JWTSecret == "" {
		return errors.New("auth.jwt_secret is required")
	}
	if !c.Server.IsDevelopment() && len(c.Auth.JWTSecret) < 32 {
		return errors.New("auth.jwt_secret must be at least 32 characters outside development")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka.brokers is required when kafka is enabled")
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return errors.New("redis.addr is required when redis is enabled")
	}
	if c.Pagination.DefaultPageSize < 1 || c.Pagination.MaxPageSize < c.Pagination.DefaultPageSize {
		return fmt.Errorf("invalid pagination: default %d, max %d",
			c.Pagination.DefaultPageSize, c.Pagination.MaxPageSize)
	}
	if c.Media.Root == "" || c.Media.URL == "" {
		return errors.New("media.root and media.url are required")
	}
	if c.Tracing.Enabled && (c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1) {
		return errors.New("tracing.sample_ratio must be within [0, 1]")
	}
	return nil
}
