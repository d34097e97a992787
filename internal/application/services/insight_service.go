package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/zatekoja/agrievents/internal/domain/providers"
	"github.com/zatekoja/agrievents/internal/infrastructure/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	// InsightNotAvailable is returned when no text generation credential is configured.
	InsightNotAvailable = "AI analysis not available"
	// InsightTemporarilyUnavailable is returned when the upstream call fails.
	InsightTemporarilyUnavailable = "AI analysis temporarily unavailable"

	insightTemperature = 0.7
)

var (
	errInsightNotConfigured = errors.New("text generation is not configured")
	errEmptyInsight         = errors.New("text generation returned an empty reply")
)

// InsightService turns a payload and an instruction into a narrative string.
// It never fails: upstream problems become one of the fallback strings.
type InsightService struct {
	provider providers.TextGenerationProvider
}

// NewInsightService creates an insight service. A nil provider means the
// credential is not configured.
func NewInsightService(provider providers.TextGenerationProvider) *InsightService {
	return &InsightService{provider: provider}
}

// Enabled reports whether a text generation provider is configured.
func (s *InsightService) Enabled() bool {
	return s != nil && s.provider != nil
}

// Compose sends instruction followed by the JSON payload as a single user
// message and returns the reply verbatim. The result is never empty.
func (s *InsightService) Compose(ctx context.Context, payload, instruction string) string {
	if !s.Enabled() {
		return s.degrade(ctx, instruction, errInsightNotConfigured)
	}

	ctx, span := observability.StartSpan(ctx, "InsightService.Compose")
	defer span.End()

	reply, err := s.provider.Complete(ctx, providers.CompletionRequest{
		Messages: []providers.ChatMessage{
			{Role: providers.RoleUser, Content: instruction + "\n\n" + payload},
		},
		Temperature: insightTemperature,
	})
	if err != nil {
		observability.RecordError(span, err)
		return s.degrade(ctx, instruction, err)
	}
	if strings.TrimSpace(reply) == "" {
		return s.degrade(ctx, instruction, errEmptyInsight)
	}
	return reply
}

// degrade is the only place an insight failure is turned into a placeholder.
func (s *InsightService) degrade(ctx context.Context, instruction string, err error) string {
	reason := "upstream_error"
	placeholder := InsightTemporarilyUnavailable
	if errors.Is(err, errInsightNotConfigured) {
		reason = "not_configured"
		placeholder = InsightNotAvailable
	} else {
		observability.LoggerFromContext(ctx).Error().Err(err).Str("instruction", truncate(instruction, 80)).Msg("insight generation failed")
	}

	if counter := insightFallbackCounter(); counter != nil {
		counter.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
	return placeholder
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

var (
	fallbackCounterOnce sync.Once
	fallbackCounter     metric.Int64Counter
)

func insightFallbackCounter() metric.Int64Counter {
	fallbackCounterOnce.Do(func() {
		counter, err := otel.Meter("github.com/zatekoja/agrievents/insights").Int64Counter(
			"ai.insight.fallback.count",
			metric.WithDescription("Number of insights replaced by a placeholder"),
		)
		if err == nil {
			fallbackCounter = counter
		}
	})
	return fallbackCounter
}
