package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/models"
	"github.com/agora-labs/agora-api/internal/repository"
	"github.com/agora-labs/agora-api/pkg/ai"
)

// DefaultToxicityFlagThreshold is the score above which content is
// auto-flagged. Strictly greater-than: a score of exactly 0.7 is not
// flagged. Override via config, never inline the literal at call sites.
const DefaultToxicityFlagThreshold = 0.7

const autoFlagReason = "Auto-flagged: high toxicity detected"
const classifierDownReason = "Classifier unavailable: queued for manual review"

// EventPublisher is the subset of the event service moderation needs.
type EventPublisher interface {
	Publish(ctx context.Context, event dto.ChangeEvent)
}

// ModerationService owns the flag lifecycle: scoring new content, deciding
// auto-flags and handling moderator review.
type ModerationService interface {
	// EvaluateContent returns the toxicity score for text. Classifier
	// failures map to 0 (fail-open) and are logged, never propagated.
	EvaluateContent(ctx context.Context, text string) float64
	// DecideFlag reports whether a score crosses the flag threshold.
	DecideFlag(score float64) bool
	CreatePost(ctx context.Context, authorID string, payload dto.PostCreateRequest) (dto.PostCreateResponse, error)
	ReportPost(ctx context.Context, postID uint, reporterID string, payload dto.FlagReportRequest) (dto.FlagResponse, error)
	ReviewFlag(ctx context.Context, flagID uint, decision string) (dto.FlagResponse, error)
	ListFlags(ctx context.Context, status string, limit, offset int) ([]dto.FlagResponse, error)
}

// ModerationConfig tunes the moderation engine.
type ModerationConfig struct {
	// FlagThreshold defaults to DefaultToxicityFlagThreshold when zero.
	FlagThreshold float64
	// FailOpen keeps the original behavior: classifier outages score 0 and
	// content passes. When false, outages queue a pending flag for manual
	// review instead.
	FailOpen bool
}

type moderationService struct {
	posts      repository.PostRepository
	threads    repository.ThreadRepository
	flags      repository.FlagRepository
	classifier ai.Classifier
	events     EventPublisher
	sentiment  SentimentPolicy
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	sanitizer  *bluemonday.Policy
	threshold  float64
	failOpen   bool
	now        func() time.Time
}

// NewModerationService constructs the moderation engine.
func NewModerationService(
	posts repository.PostRepository,
	threads repository.ThreadRepository,
	flags repository.FlagRepository,
	classifier ai.Classifier,
	events EventPublisher,
	cfg ModerationConfig,
	validate *validator.Validate,
	logger zerolog.Logger,
) ModerationService {
	threshold := cfg.FlagThreshold
	if threshold <= 0 {
		threshold = DefaultToxicityFlagThreshold
	}

	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &moderationService{
		posts:      posts,
		threads:    threads,
		flags:      flags,
		classifier: classifier,
		events:     events,
		sentiment:  DefaultSentimentPolicy(),
		validator:  validate,
		logger:     logger.With().Str("component", "moderation_service").Logger(),
		tracer:     otel.Tracer("github.com/agora-labs/agora-api/internal/service/moderation"),
		sanitizer:  policy,
		threshold:  threshold,
		failOpen:   cfg.FailOpen,
		now:        time.Now,
	}
}

func (s *moderationService) EvaluateContent(ctx context.Context, text string) float64 {
	score, _ := s.score(ctx, text)
	return score
}

// score returns the toxicity score and whether the classifier failed. On
// failure the score is the fail-open default of 0.
func (s *moderationService) score(ctx context.Context, text string) (float64, bool) {
	if s.classifier == nil {
		return 0, true
	}

	score, err := s.classifier.Score(ctx, text)
	if err != nil {
		s.logger.Error().Err(err).Msg("toxicity classifier unavailable, scoring content as 0")
		return 0, true
	}

	return score, false
}

func (s *moderationService) DecideFlag(score float64) bool {
	return score > s.threshold
}

func (s *moderationService) CreatePost(ctx context.Context, authorID string, payload dto.PostCreateRequest) (dto.PostCreateResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostCreateResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.PostCreateResponse{}, errors.New("post content empty after sanitization")
	}

	if _, err := s.threads.Get(ctx, payload.ThreadID); err != nil {
		return dto.PostCreateResponse{}, err
	}

	if payload.ParentID != nil {
		parent, err := s.posts.Get(ctx, *payload.ParentID)
		if err != nil {
			return dto.PostCreateResponse{}, err
		}
		if parent.ThreadID != payload.ThreadID {
			return dto.PostCreateResponse{}, ErrCrossThreadParent
		}
	}

	spanCtx, span := s.tracer.Start(ctx, "moderation.create_post", trace.WithAttributes(
		attribute.String("post.author_id", authorID),
		attribute.Int("post.thread_id", int(payload.ThreadID)),
	))
	defer span.End()

	toxicity, classifierFailed := s.score(spanCtx, content)
	flagged := s.DecideFlag(toxicity)
	span.SetAttributes(
		attribute.Float64("moderation.toxicity", toxicity),
		attribute.Bool("moderation.flagged", flagged),
	)

	post := models.Post{
		ThreadID:      payload.ThreadID,
		ParentID:      payload.ParentID,
		AuthorID:      authorID,
		Content:       content,
		Sentiment:     s.sentiment.Label(content),
		ToxicityScore: toxicity,
		IsFlagged:     flagged,
	}

	if err := s.posts.Create(spanCtx, &post); err != nil {
		span.RecordError(err)
		return dto.PostCreateResponse{}, err
	}

	s.logger.Info().
		Uint("post_id", post.ID).
		Str("author_id", authorID).
		Float64("toxicity", toxicity).
		Bool("flagged", flagged).
		Msg("post created")

	s.publish(spanCtx, dto.ChangeEvent{
		Entity:     dto.EventEntityPost,
		Action:     dto.EventActionInsert,
		EntityID:   post.ID,
		ThreadID:   post.ThreadID,
		OccurredAt: s.now().UTC(),
	})

	switch {
	case flagged:
		s.createFlag(spanCtx, post, models.Flag{
			PostID:       post.ID,
			FlaggedBy:    models.FlaggedBySystem,
			Reason:       autoFlagReason,
			AIConfidence: &toxicity,
			Status:       models.FlagStatusPending,
		})
	case classifierFailed && !s.failOpen:
		s.createFlag(spanCtx, post, models.Flag{
			PostID:    post.ID,
			FlaggedBy: models.FlaggedBySystem,
			Reason:    classifierDownReason,
			Status:    models.FlagStatusPending,
		})
	}

	return dto.PostCreateResponse{Post: dto.NewPostResponse(post), Flagged: flagged}, nil
}

// createFlag records the dependent flag write. A failure here is a partial
// failure: the post already exists and must stay, so the error is logged
// distinctly instead of bubbling up.
func (s *moderationService) createFlag(ctx context.Context, post models.Post, flag models.Flag) {
	if err := s.flags.Create(ctx, &flag); err != nil {
		s.logger.Error().Err(err).
			Uint("post_id", post.ID).
			Msg("partial failure: post created but flag write failed")
		return
	}

	s.publish(ctx, dto.ChangeEvent{
		Entity:     dto.EventEntityFlag,
		Action:     dto.EventActionInsert,
		EntityID:   flag.ID,
		ThreadID:   post.ThreadID,
		OccurredAt: s.now().UTC(),
	})
}

func (s *moderationService) ReportPost(ctx context.Context, postID uint, reporterID string, payload dto.FlagReportRequest) (dto.FlagResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.FlagResponse{}, err
	}

	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return dto.FlagResponse{}, err
	}

	flag := models.Flag{
		PostID:    postID,
		FlaggedBy: reporterID,
		Reason:    strings.TrimSpace(payload.Reason),
		Status:    models.FlagStatusPending,
	}
	if err := s.flags.Create(ctx, &flag); err != nil {
		return dto.FlagResponse{}, err
	}

	s.logger.Info().Uint("flag_id", flag.ID).Uint("post_id", postID).Str("reporter", reporterID).Msg("post reported")

	s.publish(ctx, dto.ChangeEvent{
		Entity:     dto.EventEntityFlag,
		Action:     dto.EventActionInsert,
		EntityID:   flag.ID,
		ThreadID:   post.ThreadID,
		OccurredAt: s.now().UTC(),
	})

	return dto.NewFlagResponse(flag), nil
}

func (s *moderationService) ReviewFlag(ctx context.Context, flagID uint, decision string) (dto.FlagResponse, error) {
	if decision != models.FlagStatusApproved && decision != models.FlagStatusRemoved {
		return dto.FlagResponse{}, ErrInvalidDecision
	}

	spanCtx, span := s.tracer.Start(ctx, "moderation.review_flag", trace.WithAttributes(
		attribute.Int("flag.id", int(flagID)),
		attribute.String("flag.decision", decision),
	))
	defer span.End()

	updated, err := s.flags.Decide(spanCtx, flagID, decision, s.now().UTC())
	if err != nil {
		span.RecordError(err)
		return dto.FlagResponse{}, err
	}

	if updated == 0 {
		// Either the flag does not exist or it was decided already; a
		// lookup distinguishes the two.
		if _, err := s.flags.Get(spanCtx, flagID); err != nil {
			return dto.FlagResponse{}, err
		}
		return dto.FlagResponse{}, ErrInvalidTransition
	}

	flag, err := s.flags.Get(spanCtx, flagID)
	if err != nil {
		return dto.FlagResponse{}, err
	}

	s.logger.Info().Uint("flag_id", flagID).Str("decision", decision).Msg("flag reviewed")

	s.publish(spanCtx, dto.ChangeEvent{
		Entity:     dto.EventEntityFlag,
		Action:     dto.EventActionUpdate,
		EntityID:   flag.ID,
		OccurredAt: s.now().UTC(),
	})

	return dto.NewFlagResponse(flag), nil
}

func (s *moderationService) ListFlags(ctx context.Context, status string, limit, offset int) ([]dto.FlagResponse, error) {
	if status != "" &&
		status != models.FlagStatusPending &&
		status != models.FlagStatusApproved &&
		status != models.FlagStatusRemoved {
		return nil, ErrInvalidDecision
	}

	flags, err := s.flags.List(ctx, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewFlagResponseSlice(flags), nil
}

func (s *moderationService) publish(ctx context.Context, event dto.ChangeEvent) {
	if s.events == nil {
		return
	}
	s.events.Publish(ctx, event)
}

// IsNotFound reports whether err is the store's missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
