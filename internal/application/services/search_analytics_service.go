package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
	apperrors "github.com/zatekoja/agrievents/pkg/errors"
)

const trackTimeout = 5 * time.Second

// SearchAnalyticsService records searches without delaying the response.
type SearchAnalyticsService struct {
	repo repositories.SearchAnalyticsRepository
	wg   sync.WaitGroup
}

// NewSearchAnalyticsService creates the service. A nil repository disables it.
func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// Enabled reports whether search events are stored.
func (s *SearchAnalyticsService) Enabled() bool {
	return s != nil && s.repo != nil
}

// TrackSearch stores the search in the background. Failures are only logged.
func (s *SearchAnalyticsService) TrackSearch(query string, resultCount int, latency time.Duration) {
	if !s.Enabled() {
		return
	}

	event := &entities.SearchEvent{
		ID:              uuid.New().String(),
		Query:           query,
		NormalizedQuery: NormalizeQuery(query),
		ResultCount:     resultCount,
		LatencyMs:       int(latency.Milliseconds()),
		CreatedAt:       time.Now().UTC(),
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// The request context is usually gone by the time this runs.
		ctx, cancel := context.WithTimeout(context.Background(), trackTimeout)
		defer cancel()

		if err := s.repo.LogEvent(ctx, event); err != nil {
			log.Warn().Err(err).Str("query", event.NormalizedQuery).Msg("failed to log search event")
		}
	}()
}

// Wait blocks until pending writes finish.
func (s *SearchAnalyticsService) Wait() {
	if s == nil {
		return
	}
	s.wg.Wait()
}

// GetZeroResultQueries lists recent searches that matched nothing.
func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if !s.Enabled() {
		return nil, apperrors.NewUnavailableError("search analytics storage is not configured")
	}
	return s.repo.GetZeroResultQueries(ctx, limit)
}

// NormalizeQuery lowercases the query and collapses whitespace.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
