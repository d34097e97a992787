package services_test

import (
	"context"
	"path"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/providers"
)

type mockEventRepository struct {
	mock.Mock
}

func (m *mockEventRepository) List(ctx context.Context) ([]*entities.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]*entities.Event)
	return events, args.Error(1)
}

type mockTextGenerationProvider struct {
	mock.Mock
}

func (m *mockTextGenerationProvider) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type mockSearchAnalyticsRepository struct {
	mock.Mock
}

func (m *mockSearchAnalyticsRepository) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	return m.Called(ctx, event).Error(0)
}

func (m *mockSearchAnalyticsRepository) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	args := m.Called(ctx, limit)
	events, _ := args.Get(0).([]*entities.SearchEvent)
	return events, args.Error(1)
}

// memoryCache is a CacheProvider backed by a map with glob matching.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data[key], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok, nil
}

func (c *memoryCache) DeletePattern(ctx context.Context, pattern string) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	deleted := 0
	for key := range c.data {
		if ok, _ := path.Match(pattern, key); ok {
			delete(c.data, key)
			deleted++
		}
	}
	return deleted, nil
}

func (c *memoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// memoryEventBus delivers published events to local subscribers.
type memoryEventBus struct {
	mu          sync.Mutex
	subscribers map[string][]chan *entities.DatasetEvent
	published   []*entities.DatasetEvent
}

func newMemoryEventBus() *memoryEventBus {
	return &memoryEventBus{subscribers: make(map[string][]chan *entities.DatasetEvent)}
}

func (b *memoryEventBus) Publish(ctx context.Context, channel string, event *entities.DatasetEvent) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, event)
	for _, ch := range b.subscribers[channel] {
		select {
		case ch <- event:
		default:
		}
	}
	return nil
}

func (b *memoryEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DatasetEvent, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan *entities.DatasetEvent, 10)
	b.subscribers[channel] = append(b.subscribers[channel], ch)
	return ch, nil
}

func (b *memoryEventBus) Close() error {
	return nil
}

func (b *memoryEventBus) SubscriberCount(channel string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[channel])
}

func (b *memoryEventBus) Published() []*entities.DatasetEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*entities.DatasetEvent(nil), b.published...)
}

var _ providers.CacheProvider = (*memoryCache)(nil)
var _ providers.EventBus = (*memoryEventBus)(nil)
