package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/providers"
)

// ResponseCachePattern matches every cached HTTP response.
const ResponseCachePattern = "http:cache:*"

// CacheInvalidationService drops cached responses when the dataset changes
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for dataset events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelDatasetUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to dataset updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(eventChan)
	log.Info().Str("channel", providers.EventChannelDatasetUpdates).Msg("cache invalidation service started")
	return nil
}

// Stop stops the service and waits for the listener to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	log.Info().Msg("cache invalidation service stopped")
}

// PublishDatasetChanged announces a data file change to every instance.
func (s *CacheInvalidationService) PublishDatasetChanged(ctx context.Context, path string) error {
	event := &entities.DatasetEvent{
		ID:        uuid.New().String(),
		EventType: entities.DatasetEventChanged,
		Path:      path,
		Timestamp: time.Now().UTC(),
	}
	if err := s.eventBus.Publish(ctx, providers.EventChannelDatasetUpdates, event); err != nil {
		return fmt.Errorf("failed to publish dataset change: %w", err)
	}
	return nil
}

// InvalidateResponses removes every cached HTTP response
func (s *CacheInvalidationService) InvalidateResponses(ctx context.Context) (int, error) {
	deleted, err := s.cache.DeletePattern(ctx, ResponseCachePattern)
	if err != nil {
		return deleted, fmt.Errorf("failed to invalidate pattern %s: %w", ResponseCachePattern, err)
	}
	return deleted, nil
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.DatasetEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.DatasetEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deleted, err := s.InvalidateResponses(ctx)
	if err != nil {
		log.Warn().Err(err).Str("event_id", event.ID).Msg("failed to invalidate response cache")
		return
	}
	log.Info().
		Str("event_id", event.ID).
		Str("event_type", string(event.EventType)).
		Str("path", event.Path).
		Int("deleted", deleted).
		Msg("invalidated response cache")
}
