package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, "data/events.csv", cfg.Data.EventsPath)
	assert.Equal(t, ',', cfg.Data.DelimiterRune())
	assert.Equal(t, DataCacheNone, cfg.Data.CacheMode)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 20*time.Second, cfg.OpenAI.Timeout)
	assert.False(t, cfg.OpenAI.Enabled())
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.False(t, cfg.Server.IsProduction())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("EVENTS_CSV_PATH", "/srv/tapahtumat.csv")
	t.Setenv("EVENTS_CSV_DELIMITER", ";")
	t.Setenv("DATA_CACHE_MODE", "MTIME")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_TIMEOUT", "5s")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, https://example.org ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.True(t, cfg.Server.IsProduction())
	assert.Equal(t, "/srv/tapahtumat.csv", cfg.Data.EventsPath)
	assert.Equal(t, ';', cfg.Data.DelimiterRune())
	assert.Equal(t, DataCacheMtime, cfg.Data.CacheMode)
	assert.True(t, cfg.OpenAI.Enabled())
	assert.Equal(t, 5*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, []string{"http://localhost:3000", "https://example.org"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PortFallback(t *testing.T) {
	t.Setenv("PORT", "7000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
}

func TestLoad_InvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad cache mode", "DATA_CACHE_MODE", "forever"},
		{"multi char delimiter", "EVENTS_CSV_DELIMITER", ";;"},
		{"negative openai timeout", "OPENAI_TIMEOUT", "-5s"},
		{"http cache without redis", "HTTP_CACHE_ENABLED", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_HTTPCacheRequiresWatch(t *testing.T) {
	t.Setenv("HTTP_CACHE_ENABLED", "true")
	t.Setenv("REDIS_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATA_WATCH")

	t.Setenv("DATA_WATCH", "true")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.HTTPCache.Enabled)
	assert.True(t, cfg.Data.Watch)
}

func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "agri", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=agri sslmode=disable", cfg.DatabaseDSN())
}
