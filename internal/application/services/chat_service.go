package services

import (
	"context"
	"strings"

	"github.com/zatekoja/agrievents/internal/domain/providers"
	"github.com/zatekoja/agrievents/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/agrievents/pkg/errors"
)

const (
	chatTemperature = 0.7
	maxChatMessage  = 4000
)

// ChatService relays a single user message to the text generation provider.
// Unlike insights, failures here are returned to the caller.
type ChatService struct {
	provider providers.TextGenerationProvider
}

// NewChatService creates a chat service. A nil provider disables chat.
func NewChatService(provider providers.TextGenerationProvider) *ChatService {
	return &ChatService{provider: provider}
}

// Reply sends message as a user message and returns the reply.
func (s *ChatService) Reply(ctx context.Context, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperrors.NewValidationError("Message is required")
	}
	if len([]rune(message)) > maxChatMessage {
		return "", apperrors.NewValidationError("Message is too long")
	}
	if s.provider == nil {
		return "", apperrors.NewUnavailableError("AI chat is not configured")
	}

	ctx, span := observability.StartSpan(ctx, "ChatService.Reply")
	defer span.End()

	reply, err := s.provider.Complete(ctx, providers.CompletionRequest{
		Messages:    []providers.ChatMessage{{Role: providers.RoleUser, Content: message}},
		Temperature: chatTemperature,
	})
	if err != nil {
		observability.RecordError(span, err)
		observability.LoggerFromContext(ctx).Error().Err(err).Msg("chat completion failed")
		return "", apperrors.NewExternalError("Failed to get response from OpenAI", err)
	}
	return reply, nil
}
