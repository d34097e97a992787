package repositories

import (
	"context"

	"github.com/zatekoja/agrievents/internal/domain/entities"
)

// EventRepository loads the full event record set.
type EventRepository interface {
	// List returns every event in source order. The result is complete;
	// a missing or malformed source yields a DATA_UNAVAILABLE AppError.
	List(ctx context.Context) ([]*entities.Event, error)
}

// EventSearchRepository is the type-ahead index over event titles.
type EventSearchRepository interface {
	InitSchema(ctx context.Context) error
	Index(ctx context.Context, id string, event *entities.Event) error
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}
