package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/models"
	"github.com/agora-labs/agora-api/internal/repository"
	"github.com/agora-labs/agora-api/pkg/ai"
)

// ContentEvaluator is the slice of the moderation engine thread creation
// needs to score new titles and descriptions.
type ContentEvaluator interface {
	EvaluateContent(ctx context.Context, text string) float64
}

// ThreadService exposes thread use-cases, including AI summarization of
// threads and individual posts.
type ThreadService interface {
	List(ctx context.Context, limit, offset int) ([]dto.ThreadResponse, error)
	Get(ctx context.Context, id uint, includePosts bool) (dto.ThreadResponse, error)
	Create(ctx context.Context, userID string, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error)
	ListPosts(ctx context.Context, threadID uint, limit, offset int) ([]dto.PostResponse, error)
	// SummarizeThread stores and returns an AI summary of the whole thread.
	// Summarizer failures yield Available=false, never an error.
	SummarizeThread(ctx context.Context, id uint) (dto.SummaryResponse, error)
	// SummarizePost returns a transient summary of a single post.
	SummarizePost(ctx context.Context, postID uint) (dto.SummaryResponse, error)
}

type threadService struct {
	threads    repository.ThreadRepository
	posts      repository.PostRepository
	summarizer ai.Summarizer
	evaluator  ContentEvaluator
	sentiment  SentimentPolicy
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	sanitizer  *bluemonday.Policy
}

// NewThreadService constructs a thread service.
func NewThreadService(
	threads repository.ThreadRepository,
	posts repository.PostRepository,
	summarizer ai.Summarizer,
	evaluator ContentEvaluator,
	validate *validator.Validate,
	logger zerolog.Logger,
) ThreadService {
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("br")

	return &threadService{
		threads:    threads,
		posts:      posts,
		summarizer: summarizer,
		evaluator:  evaluator,
		sentiment:  DefaultSentimentPolicy(),
		validator:  validate,
		logger:     logger.With().Str("component", "thread_service").Logger(),
		tracer:     otel.Tracer("github.com/agora-labs/agora-api/internal/service/thread"),
		sanitizer:  policy,
	}
}

func (s *threadService) List(ctx context.Context, limit, offset int) ([]dto.ThreadResponse, error) {
	threads, err := s.threads.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewThreadResponseSlice(threads), nil
}

func (s *threadService) Get(ctx context.Context, id uint, includePosts bool) (dto.ThreadResponse, error) {
	var (
		thread models.Thread
		err    error
	)

	if includePosts {
		thread, err = s.threads.GetWithPosts(ctx, id)
	} else {
		thread, err = s.threads.Get(ctx, id)
	}
	if err != nil {
		return dto.ThreadResponse{}, err
	}

	return dto.NewThreadResponse(thread), nil
}

func (s *threadService) Create(ctx context.Context, userID string, payload dto.ThreadCreateRequest) (dto.ThreadResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.ThreadResponse{}, err
	}

	title := strings.TrimSpace(s.sanitizer.Sanitize(payload.Title))
	if title == "" {
		return dto.ThreadResponse{}, errors.New("thread title empty after sanitization")
	}
	description := strings.TrimSpace(s.sanitizer.Sanitize(payload.Description))

	spanCtx, span := s.tracer.Start(ctx, "thread.create", trace.WithAttributes(
		attribute.String("thread.created_by", userID),
	))
	defer span.End()

	thread := models.Thread{
		Title:       title,
		Description: description,
		CreatedBy:   userID,
		Metadata:    datatypes.JSONMap{"source": "api"},
	}

	if err := s.threads.Create(spanCtx, &thread); err != nil {
		span.RecordError(err)
		return dto.ThreadResponse{}, err
	}

	// Derived scores are set after the insert; thread creation must not
	// fail because the classifier is down.
	corpus := title
	if description != "" {
		corpus = title + "\n" + description
	}
	toxicity := s.evaluateCorpus(spanCtx, corpus)
	sentiment := s.sentiment.Score(corpus)
	if err := s.threads.SetScores(spanCtx, thread.ID, toxicity, sentiment); err != nil {
		s.logger.Warn().Err(err).Uint("thread_id", thread.ID).Msg("failed to store thread scores")
	} else {
		thread.ToxicityScore = &toxicity
		thread.SentimentScore = &sentiment
	}

	s.logger.Info().Uint("thread_id", thread.ID).Str("created_by", userID).Msg("thread created")

	return dto.NewThreadResponse(thread), nil
}

func (s *threadService) evaluateCorpus(ctx context.Context, corpus string) float64 {
	if s.evaluator == nil {
		return 0
	}
	return s.evaluator.EvaluateContent(ctx, corpus)
}

func (s *threadService) ListPosts(ctx context.Context, threadID uint, limit, offset int) ([]dto.PostResponse, error) {
	if _, err := s.threads.Get(ctx, threadID); err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByThread(ctx, threadID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewPostResponseSlice(posts), nil
}

func (s *threadService) SummarizeThread(ctx context.Context, id uint) (dto.SummaryResponse, error) {
	thread, err := s.threads.GetWithPosts(ctx, id)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	builder := strings.Builder{}
	builder.WriteString(thread.Title)
	if thread.Description != "" {
		builder.WriteString("\n")
		builder.WriteString(thread.Description)
	}
	for _, post := range thread.Posts {
		builder.WriteString("\n")
		builder.WriteString(post.Content)
	}

	summary := s.summarize(ctx, builder.String())
	if summary == "" {
		return dto.SummaryResponse{Available: false}, nil
	}

	if err := s.threads.SetSummary(ctx, id, summary); err != nil {
		s.logger.Warn().Err(err).Uint("thread_id", id).Msg("failed to store thread summary")
	}

	return dto.SummaryResponse{Summary: summary, Available: true}, nil
}

func (s *threadService) SummarizePost(ctx context.Context, postID uint) (dto.SummaryResponse, error) {
	post, err := s.posts.Get(ctx, postID)
	if err != nil {
		return dto.SummaryResponse{}, err
	}

	summary := s.summarize(ctx, post.Content)
	if summary == "" {
		return dto.SummaryResponse{Available: false}, nil
	}

	return dto.SummaryResponse{Summary: summary, Available: true}, nil
}

// summarize absorbs summarizer failures: the caller gets an empty string
// and renders a placeholder instead of an error.
func (s *threadService) summarize(ctx context.Context, text string) string {
	if s.summarizer == nil {
		return ""
	}

	summary, err := s.summarizer.Summarize(ctx, text)
	if err != nil {
		s.logger.Error().Err(err).Msg("summarizer unavailable")
		return ""
	}

	return strings.TrimSpace(summary)
}
