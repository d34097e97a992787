package handlers

import (
	"context"
	"encoding/json"
	"net/http"
)

const maxChatBody = 64 << 10

// ChatService defines the chat operation used by the handler.
type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

// ChatHandler proxies chat messages to the text generation service
type ChatHandler struct {
	service       ChatService
	exposeDetails bool
}

// NewChatHandler creates a new chat handler
func NewChatHandler(service ChatService, exposeDetails bool) *ChatHandler {
	return &ChatHandler{service: service, exposeDetails: exposeDetails}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var payload chatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxChatBody)).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	reply, err := h.service.Reply(r.Context(), payload.Message)
	if err != nil {
		writeAppError(w, r, err, h.exposeDetails)
		return
	}
	respondWithData(w, reply)
}
