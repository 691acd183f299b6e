package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/vanchez121994/foodgram-project-react/pkg/database"
	"github.com/vanchez121994/foodgram-project-react/pkg/tracing"
)

// ConfigPathEnvVar overrides the config file location
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/foodgram/config.yaml",
}

// envMappings maps environment variable names to config paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_port":         "server.port",
	"environment":       "server.environment",
	"cors_origins":      "server.cors_origins",
	"trusted_proxies":   "server.trusted_proxies",
	"db_host":           "database.host",
	"db_port":           "database.port",
	"db_user":           "database.user",
	"db_password":       "database.password",
	"db_name":           "database.name",
	"db_sslmode":        "database.sslmode",
	"jwt_secret":        "auth.jwt_secret",
	"token_ttl":         "auth.token_ttl",
	"login_rate_limit":  "auth.login_rate_limit",
	"redis_enabled":     "redis.enabled",
	"redis_addr":        "redis.addr",
	"redis_password":    "redis.password",
	"redis_db":          "redis.db",
	"catalog_cache_ttl": "redis.catalog_cache_ttl",
	"kafka_enabled":     "kafka.enabled",
	"kafka_brokers":     "kafka.brokers",
	"kafka_topic":       "kafka.topic",
	"tracing_enabled":   "tracing.enabled",
	"jaeger_endpoint":   "tracing.endpoint",
	"otel_service_name": "tracing.service_name",
	"log_level":         "logging.level",
	"media_root":        "media.root",
	"media_url":         "media.url",
	"page_size":         "pagination.default_page_size",
}

// sliceConfigPaths are parsed from comma-separated environment values
var sliceConfigPaths = []string{
	"server.cors_origins",
	"server.trusted_proxies",
	"kafka.brokers",
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8080",
			Environment:     "development",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: database.Config{
			Host:            "localhost",
			Port:            "5432",
			User:            "postgres",
			Password:        "postgres",
			DBName:          "foodgram",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			SlowQuery:       200 * time.Millisecond,
		},
		Auth: AuthConfig{
			Issuer:          "foodgram",
			TokenTTL:        7 * 24 * time.Hour,
			LoginRateLimit:  10,
			LoginRateWindow: time.Minute,
		},
		Redis: RedisConfig{
			Enabled:         false,
			Addr:            "localhost:6379",
			CatalogCacheTTL: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Enabled: false,
			Topic:   "foodgram-events",
		},
		Tracing: tracing.Config{
			Enabled:     false,
			ServiceName: "foodgram",
			Version:     "1.0.0",
			Endpoint:    "http://localhost:14268/api/traces",
			SampleRatio: 1.0,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Media: MediaConfig{
			Root:      "media",
			URL:       "/media/",
			MaxWidth:  1280,
			MaxBytes:  5 << 20,
			MaxPixels: 24_000_000,
		},
		Pagination: PaginationConfig{
			DefaultPageSize: 6,
			MaxPageSize:     100,
		},
	}
}

// Load reads defaults, then the optional YAML file, then environment variables
func Load() (*Config, error) {
	return load(findConfigFile())
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}
