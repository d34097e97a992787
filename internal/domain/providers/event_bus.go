package providers

import (
	"context"

	"github.com/zatekoja/agrievents/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to dataset events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DatasetEvent) error

	// Subscribe subscribes to events on a channel until ctx is done
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DatasetEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelDatasetUpdates carries data file change notifications
const EventChannelDatasetUpdates = "dataset:updates"
