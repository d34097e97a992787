package routes_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/agrievents/internal/adapters/filestore"
	"github.com/zatekoja/agrievents/internal/api/handlers"
	"github.com/zatekoja/agrievents/internal/api/routes"
	"github.com/zatekoja/agrievents/internal/application/services"
)

func newTestServer(t *testing.T, origins []string) http.Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	require.NoError(t, os.WriteFile(path, []byte("Otsikko,Aiheet,Tyyppi\nSoil day,Soil,Koulutus\n"), 0o644))

	analytics := services.NewSearchAnalyticsService(nil)
	eventService := services.NewEventService(
		filestore.NewCSVEventAdapter(path, ','),
		services.NewInsightService(nil),
		analytics,
	)

	router := routes.NewRouter(
		handlers.NewEventHandler(eventService, nil, true),
		handlers.NewChatHandler(services.NewChatService(nil), true),
		handlers.NewAnalyticsHandler(analytics, true),
		handlers.NewDashboardHandler(),
		nil,
		origins,
		nil,
	)
	return router.SetupRoutes()
}

func TestRouter_Routes(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		target string
		body   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", http.StatusOK},
		{"dashboard", http.MethodGet, "/", "", http.StatusOK},
		{"list", http.MethodGet, "/api/events", "", http.StatusOK},
		{"search", http.MethodGet, "/api/events/search?query=soil", "", http.StatusOK},
		{"search without query", http.MethodGet, "/api/events/search", "", http.StatusBadRequest},
		{"analytics", http.MethodGet, "/api/events/analytics", "", http.StatusOK},
		{"suggest without index", http.MethodGet, "/api/events/suggest?q=so", "", http.StatusServiceUnavailable},
		{"chat without credential", http.MethodPost, "/api/chat", `{"message":"hi"}`, http.StatusServiceUnavailable},
		{"zero result queries without database", http.MethodGet, "/api/analytics/zero-result-queries", "", http.StatusServiceUnavailable},
		{"unknown path", http.MethodGet, "/api/unknown", "", http.StatusNotFound},
		{"wrong method", http.MethodPost, "/api/events", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			server.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	server := newTestServer(t, []string{"https://dashboard.example"})

	req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://dashboard.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SearchReturnsInsightSentinel(t *testing.T) {
	server := newTestServer(t, nil)

	w := httptest.NewRecorder()
	server.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/events/search?query=soil", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"aiInsights":"AI analysis not available"`)
	assert.Contains(t, w.Body.String(), `Soil day`)
}
