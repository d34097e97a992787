package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/agrievents/internal/adapters/filestore"
	"github.com/zatekoja/agrievents/internal/api/handlers"
	"github.com/zatekoja/agrievents/internal/application/services"
	"github.com/zatekoja/agrievents/internal/domain/providers"
)

const eventsCSV = `Otsikko,Tiivistelmä,Sisältö,Aiheet,Tyyppi,Tapahtumapaikan_nimi
Soil health workshop,Learn soil testing,,"Soil,Water",Koulutus,Maatalo
Market trends,Grain prices,,Markets,Webinaari,
`

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	AIInsights *string         `json:"aiInsights"`
	Error      string          `json:"error"`
	Details    string          `json:"details"`
}

type stubProvider struct {
	reply string
	err   error
}

func (p *stubProvider) Complete(ctx context.Context, req providers.CompletionRequest) (string, error) {
	return p.reply, p.err
}

type stubSuggester struct {
	titles []string
	prefix string
	limit  int
}

func (s *stubSuggester) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	s.prefix = prefix
	s.limit = limit
	return s.titles, nil
}

func newEventHandler(t *testing.T, csv string, provider providers.TextGenerationProvider, suggester handlers.TitleSuggester) *handlers.EventHandler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.csv")
	if csv != "" {
		require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	}
	repo := filestore.NewCSVEventAdapter(path, ',')
	service := services.NewEventService(repo, services.NewInsightService(provider), nil)
	return handlers.NewEventHandler(service, suggester, true)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}

func TestEventHandler_ListEvents(t *testing.T) {
	handler := newEventHandler(t, eventsCSV, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	handler.ListEvents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	body := decode(t, w)
	assert.True(t, body.Success)

	var events []map[string]string
	require.NoError(t, json.Unmarshal(body.Data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "Soil health workshop", events[0]["Otsikko"])
	assert.Equal(t, "Soil,Water", events[0]["Aiheet"])
	assert.Equal(t, "Market trends", events[1]["Otsikko"])
}

func TestEventHandler_ListEventsMissingFile(t *testing.T) {
	handler := newEventHandler(t, "", nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	handler.ListEvents(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to load events", body.Error)
	assert.NotEmpty(t, body.Details)
}

func TestEventHandler_HidesDetailsInProduction(t *testing.T) {
	repo := filestore.NewCSVEventAdapter(filepath.Join(t.TempDir(), "missing.csv"), ',')
	handler := handlers.NewEventHandler(services.NewEventService(repo, nil, nil), nil, false)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	w := httptest.NewRecorder()
	handler.ListEvents(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Failed to load events", body.Error)
	assert.Empty(t, body.Details)
}

func TestEventHandler_SearchSoil(t *testing.T) {
	handler := newEventHandler(t, eventsCSV, &stubProvider{reply: "Soil focus."}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events/search?query=soil", nil)
	w := httptest.NewRecorder()
	handler.SearchEvents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)
	require.NotNil(t, body.AIInsights)
	assert.Equal(t, "Soil focus.", *body.AIInsights)

	var events []map[string]string
	require.NoError(t, json.Unmarshal(body.Data, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Soil health workshop", events[0]["Otsikko"])
}

func TestEventHandler_SearchWithoutQuery(t *testing.T) {
	for _, target := range []string{"/api/events/search", "/api/events/search?query=", "/api/events/search?query=%20%20"} {
		handler := newEventHandler(t, eventsCSV, nil, nil)

		req := httptest.NewRequest(http.MethodGet, target, nil)
		w := httptest.NewRecorder()
		handler.SearchEvents(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		body := decode(t, w)
		assert.False(t, body.Success)
		assert.Equal(t, "Search query is required", body.Error)
		assert.Empty(t, body.Data)
	}
}

func TestEventHandler_SearchUpstreamFailureStillSucceeds(t *testing.T) {
	handler := newEventHandler(t, eventsCSV, &stubProvider{err: errors.New("status 500")}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events/search?query=market", nil)
	w := httptest.NewRecorder()
	handler.SearchEvents(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	require.NotNil(t, body.AIInsights)
	assert.Equal(t, "AI analysis temporarily unavailable", *body.AIInsights)
}

func TestEventHandler_AnalyticsWithoutCredential(t *testing.T) {
	handler := newEventHandler(t, eventsCSV, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events/analytics", nil)
	w := httptest.NewRecorder()
	handler.GetAnalytics(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.True(t, body.Success)

	var data struct {
		TotalEvents       int            `json:"totalEvents"`
		ThemeAnalysis     map[string]int `json:"themeAnalysis"`
		TypeAnalysis      map[string]int `json:"typeAnalysis"`
		AIAnalysis        string         `json:"aiAnalysis"`
		AIRecommendations string         `json:"aiRecommendations"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &data))
	assert.Equal(t, 2, data.TotalEvents)
	assert.Equal(t, map[string]int{"Soil": 1, "Water": 1, "Markets": 1}, data.ThemeAnalysis)
	assert.Equal(t, map[string]int{"Koulutus": 1, "Webinaari": 1}, data.TypeAnalysis)
	assert.Equal(t, "AI analysis not available", data.AIAnalysis)
	assert.Equal(t, "AI analysis not available", data.AIRecommendations)
}

func TestEventHandler_SuggestTitles(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		handler := newEventHandler(t, eventsCSV, nil, nil)
		w := httptest.NewRecorder()
		handler.SuggestTitles(w, httptest.NewRequest(http.MethodGet, "/api/events/suggest?q=so", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("blank prefix", func(t *testing.T) {
		handler := newEventHandler(t, eventsCSV, nil, &stubSuggester{})
		w := httptest.NewRecorder()
		handler.SuggestTitles(w, httptest.NewRequest(http.MethodGet, "/api/events/suggest?q=+", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("invalid limit", func(t *testing.T) {
		handler := newEventHandler(t, eventsCSV, nil, &stubSuggester{})
		w := httptest.NewRecorder()
		handler.SuggestTitles(w, httptest.NewRequest(http.MethodGet, "/api/events/suggest?q=so&limit=abc", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns titles with clamped limit", func(t *testing.T) {
		suggester := &stubSuggester{titles: []string{"Soil health workshop"}}
		handler := newEventHandler(t, eventsCSV, nil, suggester)
		w := httptest.NewRecorder()
		handler.SuggestTitles(w, httptest.NewRequest(http.MethodGet, "/api/events/suggest?q=so&limit=100", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "so", suggester.prefix)
		assert.Equal(t, 25, suggester.limit)
		body := decode(t, w)
		assert.JSONEq(t, `["Soil health workshop"]`, string(body.Data))
	})
}
