package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/agrievents/internal/api/handlers"
	"github.com/zatekoja/agrievents/internal/application/services"
	"github.com/zatekoja/agrievents/internal/domain/providers"
)

func TestChatHandler_Chat(t *testing.T) {
	tests := []struct {
		name     string
		provider providers.TextGenerationProvider
		body     string
		status   int
		data     string
		errMsg   string
	}{
		{"success", &stubProvider{reply: "Hello farmer."}, `{"message":"hi"}`, http.StatusOK, `"Hello farmer."`, ""},
		{"invalid json", &stubProvider{}, `{`, http.StatusBadRequest, "", "invalid request payload"},
		{"blank message", &stubProvider{}, `{"message":"  "}`, http.StatusBadRequest, "", "Message is required"},
		{"not configured", nil, `{"message":"hi"}`, http.StatusServiceUnavailable, "", "AI chat is not configured"},
		{"upstream failure", &stubProvider{err: errors.New("status 429")}, `{"message":"hi"}`, http.StatusInternalServerError, "", "Failed to get response from OpenAI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := handlers.NewChatHandler(services.NewChatService(tt.provider), false)

			req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			handler.Chat(w, req)

			assert.Equal(t, tt.status, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.errMsg == "", body.Success)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, body.Error)
				assert.Empty(t, body.Details)
			} else {
				assert.JSONEq(t, tt.data, string(body.Data))
			}
		})
	}
}
