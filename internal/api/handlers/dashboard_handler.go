package handlers

import (
	"embed"
	"net/http"
)

//go:embed web/index.html
var webAssets embed.FS

// DashboardHandler serves the single-page dashboard
type DashboardHandler struct {
	page []byte
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler() *DashboardHandler {
	page, err := webAssets.ReadFile("web/index.html")
	if err != nil {
		// The file is embedded at build time.
		panic(err)
	}
	return &DashboardHandler{page: page}
}

// ServeDashboard handles GET /
func (h *DashboardHandler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.page)
}

// Health handles GET /health
func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
