package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/zatekoja/agrievents/internal/domain/entities"
)

// SearchAnalyticsService defines the search analytics queries used by the handler.
type SearchAnalyticsService interface {
	Enabled() bool
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler exposes stored search analytics
type AnalyticsHandler struct {
	service       SearchAnalyticsService
	exposeDetails bool
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(service SearchAnalyticsService, exposeDetails bool) *AnalyticsHandler {
	return &AnalyticsHandler{service: service, exposeDetails: exposeDetails}
}

// ZeroResultQueries handles GET /api/analytics/zero-result-queries?limit=
func (h *AnalyticsHandler) ZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	if h.service == nil || !h.service.Enabled() {
		respondWithError(w, http.StatusServiceUnavailable, "Search analytics storage is not configured")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.service.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		writeAppError(w, r, err, h.exposeDetails)
		return
	}
	respondWithData(w, events)
}
