package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/zatekoja/agrievents/internal/domain/entities"
)

const (
	defaultSuggestLimit = 10
	maxSuggestLimit     = 25
)

// EventService defines the event operations used by the handler.
type EventService interface {
	List(ctx context.Context) ([]*entities.Event, error)
	Search(ctx context.Context, query string) (*entities.SearchResult, error)
	Analytics(ctx context.Context) (*entities.Analytics, error)
}

// TitleSuggester provides type-ahead titles.
type TitleSuggester interface {
	Suggest(ctx context.Context, prefix string, limit int) ([]string, error)
}

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	service       EventService
	suggester     TitleSuggester
	exposeDetails bool
}

// NewEventHandler creates a new event handler. suggester may be nil.
// exposeDetails adds error details to 5xx responses.
func NewEventHandler(service EventService, suggester TitleSuggester, exposeDetails bool) *EventHandler {
	return &EventHandler{
		service:       service,
		suggester:     suggester,
		exposeDetails: exposeDetails,
	}
}

// ListEvents handles GET /api/events
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	if err != nil {
		writeAppError(w, r, err, h.exposeDetails)
		return
	}
	respondWithData(w, events)
}

// SearchEvents handles GET /api/events/search?query=
func (h *EventHandler) SearchEvents(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		writeAppError(w, r, err, h.exposeDetails)
		return
	}
	respondWithJSON(w, http.StatusOK, searchResponse{
		Success:    true,
		Data:       result.Events,
		AIInsights: result.AIInsights,
	})
}

// GetAnalytics handles GET /api/events/analytics
func (h *EventHandler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	analytics, err := h.service.Analytics(r.Context())
	if err != nil {
		writeAppError(w, r, err, h.exposeDetails)
		return
	}
	respondWithData(w, analytics)
}

// SuggestTitles handles GET /api/events/suggest?q=&limit=
func (h *EventHandler) SuggestTitles(w http.ResponseWriter, r *http.Request) {
	if h.suggester == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Title suggestions are not configured")
		return
	}

	query := r.URL.Query()
	prefix := strings.TrimSpace(query.Get("q"))
	if prefix == "" {
		respondWithError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	limit := defaultSuggestLimit
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(parsed, maxSuggestLimit)
	}

	titles, err := h.suggester.Suggest(r.Context(), prefix, limit)
	if err != nil {
		writeAppError(w, r, err, h.exposeDetails)
		return
	}
	respondWithData(w, titles)
}
