package providers

import (
	"context"
	"errors"
)

// ErrTextGenerationUnauthorized is returned when the upstream rejects the credential.
var ErrTextGenerationUnauthorized = errors.New("text generation unauthorized")

// Chat roles
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one message of a chat-completion conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest asks the upstream for one reply.
type CompletionRequest struct {
	Messages    []ChatMessage
	Temperature float64
}

// TextGenerationProvider produces a textual reply for a conversation.
type TextGenerationProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
