package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OpenAIConfig defines configuration options for the OpenAI-backed
// classifier and summarizer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAIClient implements Classifier via the moderations endpoint and
// Summarizer via chat completions.
type OpenAIClient struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAIClient builds the client using the provided configuration.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 256
	}

	config := openai.DefaultConfig(cfg.APIKey)
	client := openai.NewClientWithConfig(config)

	return &OpenAIClient{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/agora-labs/agora-api/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai_client").Logger(),
	}, nil
}

// Score classifies text through the moderations endpoint and maps the
// highest category score into [0,1].
func (o *OpenAIClient) Score(parent context.Context, text string) (float64, error) {
	ctx, span := o.tracer.Start(parent, "openai.moderate", trace.WithAttributes(
		attribute.Int("text.length", len(text)),
	))
	defer span.End()

	start := time.Now()
	resp, err := o.client.Moderations(ctx, openai.ModerationRequest{
		Model: openai.ModerationTextStable,
		Input: text,
	})
	aiDuration.WithLabelValues("openai", "score").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("openai", "score").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("openai moderate: %w", err)
	}

	if len(resp.Results) == 0 {
		err := fmt.Errorf("no moderation results returned from openai")
		aiFailures.WithLabelValues("openai", "score").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	scores := resp.Results[0].CategoryScores
	top := scores.Hate
	for _, candidate := range []float32{
		scores.HateThreatening,
		scores.Harassment,
		scores.HarassmentThreatening,
		scores.SelfHarm,
		scores.Violence,
		scores.ViolenceGraphic,
	} {
		if candidate > top {
			top = candidate
		}
	}

	return clampScore(float64(top)), nil
}

// Summarize asks the chat completion API for a short neutral summary.
func (o *OpenAIClient) Summarize(parent context.Context, text string) (string, error) {
	ctx, span := o.tracer.Start(parent, "openai.summarize", trace.WithAttributes(
		attribute.String("model", o.cfg.Model),
		attribute.Int("text.length", len(text)),
	))
	defer span.End()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.cfg.Model,
		MaxTokens:   o.cfg.MaxTokens,
		Temperature: o.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: summarizerSystemPrompt(),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
	})
	aiDuration.WithLabelValues("openai", "summarize").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("openai", "summarize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("openai summarize: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no choices returned from openai")
		aiFailures.WithLabelValues("openai", "summarize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	summary := strings.TrimSpace(resp.Choices[0].Message.Content)
	if summary == "" {
		err := fmt.Errorf("empty summary returned from openai")
		aiFailures.WithLabelValues("openai", "summarize").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	return summary, nil
}

func summarizerSystemPrompt() string {
	return "You summarize discussion-board content. Respond with two or three neutral sentences capturing the main points. " +
		"Do not add opinions or content warnings."
}
