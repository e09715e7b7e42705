package service

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/models"
	"github.com/agora-labs/agora-api/internal/repository"
)

// EngagementService computes reaction tallies and handles toggling. It
// never mutates posts, only the reaction rows themselves.
type EngagementService interface {
	Tally(ctx context.Context, postID uint) (dto.ReactionTally, error)
	PostReactions(ctx context.Context, postID uint, userID string) (dto.PostReactionsResponse, error)
	Toggle(ctx context.Context, postID uint, userID, kind string) (dto.ReactionToggleResponse, error)
}

type engagementService struct {
	reactions repository.ReactionRepository
	posts     repository.PostRepository
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewEngagementService constructs an engagement aggregator.
func NewEngagementService(reactions repository.ReactionRepository, posts repository.PostRepository, logger zerolog.Logger) EngagementService {
	return &engagementService{
		reactions: reactions,
		posts:     posts,
		logger:    logger.With().Str("component", "engagement_service").Logger(),
		tracer:    otel.Tracer("github.com/agora-labs/agora-api/internal/service/engagement"),
	}
}

func (s *engagementService) Tally(ctx context.Context, postID uint) (dto.ReactionTally, error) {
	counts, err := s.reactions.Tally(ctx, postID)
	if err != nil {
		return nil, err
	}
	return dto.ReactionTally(counts), nil
}

func (s *engagementService) PostReactions(ctx context.Context, postID uint, userID string) (dto.PostReactionsResponse, error) {
	tally, err := s.Tally(ctx, postID)
	if err != nil {
		return dto.PostReactionsResponse{}, err
	}

	own := []string{}
	if userID != "" {
		own, err = s.reactions.UserReactions(ctx, postID, userID)
		if err != nil {
			return dto.PostReactionsResponse{}, err
		}
	}

	return dto.PostReactionsResponse{
		PostID:        postID,
		Tally:         tally,
		UserReactions: own,
	}, nil
}

func (s *engagementService) Toggle(ctx context.Context, postID uint, userID, kind string) (dto.ReactionToggleResponse, error) {
	if !models.ValidReactionType(kind) {
		return dto.ReactionToggleResponse{}, ErrInvalidReaction
	}

	if _, err := s.posts.Get(ctx, postID); err != nil {
		return dto.ReactionToggleResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "engagement.toggle", trace.WithAttributes(
		attribute.Int("reaction.post_id", int(postID)),
		attribute.String("reaction.type", kind),
	))
	defer span.End()

	applied, err := s.reactions.Toggle(spanCtx, postID, userID, kind)
	if err != nil {
		span.RecordError(err)
		return dto.ReactionToggleResponse{}, err
	}

	s.logger.Debug().
		Uint("post_id", postID).
		Str("user_id", userID).
		Str("type", kind).
		Bool("applied", applied).
		Msg("reaction toggled")

	return dto.ReactionToggleResponse{PostID: postID, Type: kind, Applied: applied}, nil
}
