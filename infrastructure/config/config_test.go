package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "SERVER_ADDRESS", "ENVIRONMENT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL",
		"SEED_CATALOG", "SUMMARY_LIMIT", "SUMMARY_CACHE_TTL", "ENABLE_METRICS", "ENABLE_CORS", "CORS_ORIGINS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 5, cfg.SummaryLimit)
	assert.Equal(t, 10*time.Minute, cfg.SummaryCacheTTL)
	assert.True(t, cfg.EnableMetrics)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoadConfig_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server_address: ":9090"
summary_limit: 8
summary_cache_ttl: 30s
seed_catalog: /data/catalog.json
cors_origins:
  - https://a.example
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SUMMARY_LIMIT", "3")
	t.Setenv("CORS_ORIGINS", "https://b.example, https://c.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, ":9090", cfg.ServerAddress)
	assert.Equal(t, 30*time.Second, cfg.SummaryCacheTTL)
	assert.Equal(t, "/data/catalog.json", cfg.SeedCatalog)
	assert.Equal(t, 3, cfg.SummaryLimit, "environment wins over the file")
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.CORSOrigins)
}

func TestLoadConfig_RejectsUnknownFileKeys(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("summary_limt: 3\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "bad environment", mutate: func(c *Config) { c.Environment = "qa" }, wantErr: "ENVIRONMENT"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }, wantErr: "LOG_LEVEL"},
		{name: "zero summary limit", mutate: func(c *Config) { c.SummaryLimit = 0 }, wantErr: "SUMMARY_LIMIT"},
		{name: "zero cache ttl", mutate: func(c *Config) { c.SummaryCacheTTL = 0 }, wantErr: "SUMMARY_CACHE_TTL"},
		{
			name:    "wildcard cors in production",
			mutate:  func(c *Config) { c.Environment = "production" },
			wantErr: "CORS_ORIGINS",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDomainConfig(t *testing.T) {
	cfg := Defaults()
	cfg.SummaryLimit = 7

	dc := cfg.DomainConfig()
	assert.Equal(t, 7, dc.SummaryLimit)
	assert.NoError(t, dc.Validate())
}
