package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/google/uuid"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
	"github.com/zatekoja/agrievents/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/agrievents/pkg/errors"
)

const (
	searchAnalyticsTable   = "search_analytics"
	defaultZeroResultLimit = 50
	maximumZeroResultLimit = 500
)

// SearchAnalyticsAdapter stores search events in Postgres.
type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchAnalyticsAdapter creates a new search analytics adapter.
func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent inserts one search event, assigning an id and timestamp when missing.
func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	record := goqu.Record{
		"id":               event.ID,
		"query":            event.Query,
		"normalized_query": event.NormalizedQuery,
		"result_count":     event.ResultCount,
		"latency_ms":       event.LatencyMs,
		"created_at":       event.CreatedAt,
	}

	query, args, err := a.db.Insert(searchAnalyticsTable).Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build search event insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

// GetZeroResultQueries returns the most recent searches that matched nothing.
func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = defaultZeroResultLimit
	}
	if limit > maximumZeroResultLimit {
		limit = maximumZeroResultLimit
	}

	query, args, err := a.db.From(searchAnalyticsTable).Prepared(true).
		Select("id", "query", "normalized_query", "result_count", "latency_ms", "created_at").
		Where(goqu.C("result_count").Eq(0)).
		Order(goqu.C("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build zero result query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	events := []*entities.SearchEvent{}
	for rows.Next() {
		e := &entities.SearchEvent{}
		if err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.NormalizedQuery,
			&e.ResultCount,
			&e.LatencyMs,
			&e.CreatedAt,
		); err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read zero result queries", err)
	}

	return events, nil
}
