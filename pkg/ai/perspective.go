package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PerspectiveConfig defines configuration for the Comment Analyzer client.
type PerspectiveConfig struct {
	APIKey  string
	APIURL  string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// PerspectiveClassifier implements Classifier against the Comment Analyzer
// comments:analyze endpoint, requesting the TOXICITY attribute.
type PerspectiveClassifier struct {
	client *http.Client
	cfg    PerspectiveConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewPerspectiveClassifier builds a classifier using the provided configuration.
func NewPerspectiveClassifier(cfg PerspectiveConfig) (*PerspectiveClassifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("perspective api key is required")
	}

	if cfg.APIURL == "" {
		cfg.APIURL = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &PerspectiveClassifier{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
		tracer: otel.Tracer("github.com/agora-labs/agora-api/pkg/ai/perspective"),
		logger: cfg.Logger.With().Str("component", "perspective_classifier").Logger(),
	}, nil
}

type perspectiveRequest struct {
	Comment struct {
		Text string `json:"text"`
	} `json:"comment"`
	Languages           []string            `json:"languages"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type perspectiveResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Score sends the text to the Comment Analyzer API and returns the TOXICITY
// summary score.
func (p *PerspectiveClassifier) Score(parent context.Context, text string) (float64, error) {
	ctx, span := p.tracer.Start(parent, "perspective.score", trace.WithAttributes(
		attribute.Int("text.length", len(text)),
	))
	defer span.End()

	payload := perspectiveRequest{
		Languages:           []string{"en"},
		RequestedAttributes: map[string]struct{}{"TOXICITY": {}},
	}
	payload.Comment.Text = text

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("perspective encode: %w", err)
	}

	endpoint := fmt.Sprintf("%s?key=%s", p.cfg.APIURL, url.QueryEscape(p.cfg.APIKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("perspective request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	aiDuration.WithLabelValues("perspective", "score").Observe(time.Since(start).Seconds())
	if err != nil {
		aiFailures.WithLabelValues("perspective", "score").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("perspective call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		err := fmt.Errorf("perspective status %d: %s", resp.StatusCode, raw)
		aiFailures.WithLabelValues("perspective", "score").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	var parsed perspectiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		aiFailures.WithLabelValues("perspective", "score").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("perspective decode: %w", err)
	}

	toxicity, ok := parsed.AttributeScores["TOXICITY"]
	if !ok {
		err := fmt.Errorf("perspective response missing TOXICITY attribute")
		aiFailures.WithLabelValues("perspective", "score").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	return clampScore(toxicity.SummaryScore.Value), nil
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
