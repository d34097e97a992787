package services

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/zatekoja/agrievents/internal/domain/entities"
	"github.com/zatekoja/agrievents/internal/domain/repositories"
	"github.com/zatekoja/agrievents/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/agrievents/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	searchInstruction = "You are analysing agricultural events. Explain briefly how the following events " +
		"relate to each other thematically and which themes stand out. Answer in a few sentences."
	summaryInstruction = "Give a short analysis of this agricultural event catalogue: how many events there " +
		"are and what range of themes they cover."
	recommendationInstruction = "Based on how often each theme occurs in these agricultural events, recommend " +
		"which topics deserve more events and which are already well covered."
)

// EventService orchestrates loading, filtering, aggregation and insights.
type EventService struct {
	repo      repositories.EventRepository
	insights  *InsightService
	analytics *SearchAnalyticsService
}

// NewEventService creates a new event service. analytics may be nil.
func NewEventService(repo repositories.EventRepository, insights *InsightService, analytics *SearchAnalyticsService) *EventService {
	if insights == nil {
		insights = NewInsightService(nil)
	}
	return &EventService{
		repo:      repo,
		insights:  insights,
		analytics: analytics,
	}
}

// List returns every event in file order.
func (s *EventService) List(ctx context.Context) ([]*entities.Event, error) {
	ctx, span := observability.StartSpan(ctx, "EventService.List")
	defer span.End()

	events, err := s.repo.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	observability.SetSpanAttributes(span, attribute.Int("events.count", len(events)))
	return events, nil
}

// Search filters events by query and adds one insight over the matches.
// A blank query is rejected before anything is loaded. Otherwise the query is
// matched exactly as sent, surrounding whitespace included.
func (s *EventService) Search(ctx context.Context, query string) (*entities.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.NewValidationError("Search query is required")
	}

	ctx, span := observability.StartSpan(ctx, "EventService.Search")
	defer span.End()
	start := time.Now()

	events, err := s.repo.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	matched := FilterEvents(events, query)
	observability.SetSpanAttributes(span,
		attribute.Int("events.count", len(events)),
		attribute.Int("events.matched", len(matched)),
	)
	s.analytics.TrackSearch(query, len(matched), time.Since(start))

	return &entities.SearchResult{
		Events:     matched,
		AIInsights: s.insights.Compose(ctx, marshalPayload(ctx, matched), searchInstruction),
	}, nil
}

// Analytics aggregates themes and types over every event and composes two
// insights concurrently.
func (s *EventService) Analytics(ctx context.Context) (*entities.Analytics, error) {
	ctx, span := observability.StartSpan(ctx, "EventService.Analytics")
	defer span.End()

	events, err := s.repo.List(ctx)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result := &entities.Analytics{
		TotalEvents:   len(events),
		ThemeAnalysis: AggregateThemes(events),
		TypeAnalysis:  AggregateTypes(events),
	}

	summary := marshalPayload(ctx, struct {
		TotalEvents int      `json:"totalEvents"`
		Themes      []string `json:"themes"`
	}{
		TotalEvents: result.TotalEvents,
		Themes:      result.ThemeAnalysis.Keys(),
	})
	themes := marshalPayload(ctx, result.ThemeAnalysis)

	// Compose never fails, so the group only joins the two calls.
	var g errgroup.Group
	g.Go(func() error {
		result.AIAnalysis = s.insights.Compose(ctx, summary, summaryInstruction)
		return nil
	})
	g.Go(func() error {
		result.AIRecommendations = s.insights.Compose(ctx, themes, recommendationInstruction)
		return nil
	})
	_ = g.Wait()

	return result, nil
}

func marshalPayload(ctx context.Context, v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to encode insight payload")
		return "{}"
	}
	return string(data)
}
