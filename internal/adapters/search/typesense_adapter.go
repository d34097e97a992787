package search

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
	tsclient "github.com/zatekoja/agrievents/internal/infrastructure/clients/typesense"
)

const maxSuggestions = 25

// TypesenseAdapter implements title suggestions using Typesense
type TypesenseAdapter struct {
	client   *tsclient.Client
	position atomic.Int32
}

var _ repositories.EventSearchRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// InitSchema ensures the collection exists
func (a *TypesenseAdapter) InitSchema(ctx context.Context) error {
	if _, err := a.client.Client().Collection(tsclient.EventsCollection).Retrieve(ctx); err == nil {
		return nil
	}

	schema := &api.CollectionSchema{
		Name: tsclient.EventsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "title", Type: "string"},
			{Name: "type", Type: "string", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "venue", Type: "string", Optional: pointer.True()},
			{Name: "themes", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "position", Type: "int32"},
		},
		DefaultSortingField: pointer.String("position"),
	}

	if _, err := a.client.Client().Collections().Create(ctx, schema); err != nil {
		return fmt.Errorf("failed to create typesense collection: %w", err)
	}
	return nil
}

// Index upserts one event. Documents keep the order they were indexed in.
func (a *TypesenseAdapter) Index(ctx context.Context, id string, event *entities.Event) error {
	if event == nil {
		return fmt.Errorf("event is nil")
	}
	if id == "" {
		id = EventDocumentID(event)
	}
	document := buildEventDocument(id, int(a.position.Add(1)), event)

	if _, err := a.client.Client().Collection(tsclient.EventsCollection).Documents().Upsert(ctx, document); err != nil {
		return fmt.Errorf("failed to index event: %w", err)
	}
	return nil
}

// Suggest returns distinct titles matching prefix, best match first.
func (a *TypesenseAdapter) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return []string{}, nil
	}
	if limit <= 0 || limit > maxSuggestions {
		limit = maxSuggestions
	}

	params := &api.SearchCollectionParams{
		Q:             pointer.String(prefix),
		QueryBy:       pointer.String("title,themes"),
		IncludeFields: pointer.String("title"),
		PerPage:       pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.EventsCollection).Documents().Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}
	if result.Hits == nil {
		return []string{}, nil
	}

	return collectTitles(*result.Hits, limit), nil
}

func collectTitles(hits []api.SearchResultHit, limit int) []string {
	titles := []string{}
	seen := make(map[string]struct{})
	for _, hit := range hits {
		if hit.Document == nil {
			continue
		}
		title, ok := (*hit.Document)["title"].(string)
		if !ok || title == "" {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		titles = append(titles, title)
		if len(titles) >= limit {
			break
		}
	}
	return titles
}
