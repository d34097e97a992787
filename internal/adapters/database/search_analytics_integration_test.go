//go:build integration

package database_test

import (
	"context"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/agrievents/internal/adapters/database"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/agrievents/pkg/config"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func newTestPostgresClient(t *testing.T) *postgres.Client {
	t.Helper()
	if os.Getenv("TEST_DB_HOST") == "" {
		t.Skip("Skipping integration test: TEST_DB_HOST not set")
	}

	port, err := strconv.Atoi(getEnv("TEST_DB_PORT", "5432"))
	require.NoError(t, err)

	client, err := postgres.NewClient(context.Background(), &config.DatabaseConfig{
		Host:     os.Getenv("TEST_DB_HOST"),
		Port:     port,
		User:     getEnv("TEST_DB_USER", "postgres"),
		Password: getEnv("TEST_DB_PASSWORD", "postgres"),
		Database: getEnv("TEST_DB_NAME", "agri_events_test"),
		SSLMode:  getEnv("TEST_DB_SSLMODE", "disable"),
	})
	require.NoError(t, err, "Failed to create postgres client")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSearchAnalyticsAdapterIntegration(t *testing.T) {
	client := newTestPostgresClient(t)
	ctx := context.Background()
	require.NoError(t, client.Migrate(ctx))

	adapter := database.NewSearchAnalyticsAdapter(client)
	marker := "it-" + uuid.NewString()

	require.NoError(t, adapter.LogEvent(ctx, &entities.SearchEvent{
		Query:           marker,
		NormalizedQuery: marker,
		ResultCount:     0,
		LatencyMs:       3,
		CreatedAt:       time.Now().UTC(),
	}))
	require.NoError(t, adapter.LogEvent(ctx, &entities.SearchEvent{
		Query:           marker + "-hit",
		NormalizedQuery: marker + "-hit",
		ResultCount:     4,
	}))
	defer client.DB().ExecContext(ctx, "DELETE FROM search_analytics WHERE query LIKE $1", marker+"%")

	events, err := adapter.GetZeroResultQueries(ctx, 500)
	require.NoError(t, err)

	var found bool
	for _, event := range events {
		assert.Zero(t, event.ResultCount)
		assert.NotEqual(t, marker+"-hit", event.Query)
		if event.Query == marker {
			found = true
		}
	}
	assert.True(t, found)
}
