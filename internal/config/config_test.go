package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "foodgram", cfg.Database.DBName)
	assert.Equal(t, 6, cfg.Pagination.DefaultPageSize)
	assert.Equal(t, 100, cfg.Pagination.MaxPageSize)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "/media/", cfg.Media.URL)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CatalogCacheTTL)
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("CATALOG_CACHE_TTL", "30s")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")
	t.Setenv("UNRELATED_VARIABLE", "ignored")

	cfg, err := load("")
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Redis.CatalogCacheTTL)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.Server.TrustedProxies)
}

func TestLoadYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "7000"
auth:
  jwt_secret: from-file
fixtures:
  tags:
    - name: Breakfast
      color: "#E26C2D"
      slug: breakfast
    - name: Dinner
      color: "#49B64E"
      slug: dinner
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("HTTP_PORT", "7100")

	cfg, err := load(path)
	require.NoError(t, err)

	assert.Equal(t, "7100", cfg.Server.Port, "environment wins over file")
	assert.Equal(t, "from-file", cfg.Auth.JWTSecret)
	require.Len(t, cfg.Fixtures.Tags, 2)
	assert.Equal(t, TagFixture{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}, cfg.Fixtures.Tags[0])
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := defaultConfig()
		cfg.Auth.JWTSecret = "test-secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults with secret", mutate: func(*Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{
			name: "short secret in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
			},
			wantErr: true,
		},
		{
			name: "long secret in production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Auth.JWTSecret = "0123456789abcdef0123456789abcdef"
			},
		},
		{name: "kafka without brokers", mutate: func(c *Config) { c.Kafka.Enabled = true }, wantErr: true},
		{name: "redis without addr", mutate: func(c *Config) { c.Redis.Enabled = true; c.Redis.Addr = "" }, wantErr: true},
		{name: "max page below default", mutate: func(c *Config) { c.Pagination.MaxPageSize = 3 }, wantErr: true},
		{name: "zero page size", mutate: func(c *Config) { c.Pagination.DefaultPageSize = 0 }, wantErr: true},
		{name: "no media root", mutate: func(c *Config) { c.Media.Root = "" }, wantErr: true},
		{
			name: "sample ratio out of range",
			mutate: func(c *Config) {
				c.Tracing.Enabled = true
				c.Tracing.SampleRatio = 1.5
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
