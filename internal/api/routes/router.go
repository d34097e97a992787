package routes

import (
	"net/http"

	"github.com/zatekoja/agrievents/internal/api/handlers"
	"github.com/zatekoja/agrievents/internal/api/middleware"
	"github.com/zatekoja/agrievents/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	eventHandler     *handlers.EventHandler
	chatHandler      *handlers.ChatHandler
	analyticsHandler *handlers.AnalyticsHandler
	dashboardHandler *handlers.DashboardHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	eventHandler *handlers.EventHandler,
	chatHandler *handlers.ChatHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	dashboardHandler *handlers.DashboardHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		eventHandler:     eventHandler,
		chatHandler:      chatHandler,
		analyticsHandler: analyticsHandler,
		dashboardHandler: dashboardHandler,
		cacheMiddleware:  cacheMiddleware,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes sets up all routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check and dashboard
	r.mux.HandleFunc("GET /health", r.dashboardHandler.Health)
	r.mux.HandleFunc("GET /{$}", r.dashboardHandler.ServeDashboard)

	// Event endpoints
	r.mux.HandleFunc("GET /api/events", r.eventHandler.ListEvents)
	r.mux.HandleFunc("GET /api/events/search", r.eventHandler.SearchEvents)
	r.mux.HandleFunc("GET /api/events/analytics", r.eventHandler.GetAnalytics)
	r.mux.HandleFunc("GET /api/events/suggest", r.eventHandler.SuggestTitles)

	// Chat proxy
	r.mux.HandleFunc("POST /api/chat", r.chatHandler.Chat)

	// Search analytics
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.ZeroResultQueries)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	// CORS must be outermost so cached responses also get CORS headers.

	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// Compression, ETag and cache headers
	handler = middleware.ResponseOptimization(handler)

	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
