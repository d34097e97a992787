package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
)

// SearchIndexWarmingService copies the event file into the title suggestion
// index so suggestions follow the data without a separate indexer run.
type SearchIndexWarmingService struct {
	events repositories.EventRepository
	index  repositories.EventSearchRepository

	// Serialises warm runs triggered by overlapping file changes.
	mu sync.Mutex
}

// NewSearchIndexWarmingService creates a new search index warming service
func NewSearchIndexWarmingService(
	events repositories.EventRepository,
	index repositories.EventSearchRepository,
) *SearchIndexWarmingService {
	return &SearchIndexWarmingService{
		events: events,
		index:  index,
	}
}

// WarmIndex upserts every titled event and returns how many were indexed.
// Failures on single events are logged and skipped.
func (s *SearchIndexWarmingService) WarmIndex(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	events, err := s.events.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load events: %w", err)
	}

	indexed := 0
	for _, event := range events {
		if event == nil || strings.TrimSpace(event.Title) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return indexed, err
		}
		if err := s.index.Index(ctx, "", event); err != nil {
			log.Warn().Err(err).Str("title", event.Title).Msg("failed to index event")
			continue
		}
		indexed++
	}

	log.Info().
		Int("indexed", indexed).
		Int("events", len(events)).
		Dur("duration", time.Since(start)).
		Msg("search index warmed")
	return indexed, nil
}
