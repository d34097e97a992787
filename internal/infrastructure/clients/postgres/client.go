package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/agrievents/pkg/config"
	"github.com/zatekoja/agrievents/pkg/retry"
)

const createSearchAnalyticsTable = `
CREATE TABLE IF NOT EXISTS search_analytics (
	id               UUID PRIMARY KEY,
	query            TEXT NOT NULL,
	normalized_query TEXT NOT NULL,
	result_count     INTEGER NOT NULL,
	latency_ms       INTEGER NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_search_analytics_zero ON search_analytics (created_at DESC) WHERE result_count = 0;
`

// Client represents a PostgreSQL database client
type Client struct {
	db *sql.DB
}

// NewClient opens the database and waits for it with exponential backoff
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	err = retry.Do(ctx, retry.DefaultConfig(), "postgres", func(ctx context.Context) error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}, func(attempt int, err error, nextDelay time.Duration) {
		log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("postgres connection attempt failed")
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to PostgreSQL after retries: %w", err)
	}

	return &Client{db: db}, nil
}

// NewFromDB wraps an already opened database handle
func NewFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// Migrate creates the tables the service writes to
func (c *Client) Migrate(ctx context.Context) error {
	if _, err := c.db.ExecContext(ctx, createSearchAnalyticsTable); err != nil {
		return fmt.Errorf("failed to migrate search_analytics: %w", err)
	}
	return nil
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database connection
func (c *Client) Close() error {
	return c.db.Close()
}
