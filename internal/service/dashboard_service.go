package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/repository"
)

const (
	dashboardCacheKey    = "dashboard:stats"
	topToxicThreadLimit  = 5
	lowestTrustUserLimit = 20
	recentSummariesLimit = 5
)

// DashboardService aggregates moderation and engagement statistics for the
// moderator dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	dashboards repository.DashboardRepository
	flags      repository.FlagRepository
	profiles   repository.ProfileRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewDashboardService constructs the dashboard aggregator.
func NewDashboardService(
	dashboards repository.DashboardRepository,
	flags repository.FlagRepository,
	profiles repository.ProfileRepository,
	cache *redis.Client,
	ttl time.Duration,
	logger zerolog.Logger,
) DashboardService {
	return &dashboardService{
		dashboards: dashboards,
		flags:      flags,
		profiles:   profiles,
		cache:      cache,
		cacheTTL:   ttl,
		logger:     logger.With().Str("component", "dashboard_service").Logger(),
		now:        time.Now,
	}
}

func (s *dashboardService) Stats(ctx context.Context) (dto.DashboardStatsResponse, error) {
	tracer := otel.Tracer("github.com/agora-labs/agora-api/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.aggregate")
	span.SetAttributes(attribute.String("dashboard.cache_key", dashboardCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var response dto.DashboardStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				response.CacheHit = true
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
	}

	totalThreads, err := s.dashboards.CountThreads(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_threads_failed")
		return dto.DashboardStatsResponse{}, err
	}

	totalPosts, err := s.dashboards.CountPosts(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_posts_failed")
		return dto.DashboardStatsResponse{}, err
	}

	totalUsers, err := s.profiles.Count(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_users_failed")
		return dto.DashboardStatsResponse{}, err
	}

	sentiments, err := s.dashboards.SentimentScores(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "sentiment_scores_failed")
		return dto.DashboardStatsResponse{}, err
	}

	flagCounts, err := s.flags.CountByStatus(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "count_flags_failed")
		return dto.DashboardStatsResponse{}, err
	}

	toxic, err := s.dashboards.TopToxicThreads(ctx, topToxicThreadLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "top_toxic_failed")
		return dto.DashboardStatsResponse{}, err
	}

	lowestTrust, err := s.profiles.ListLowestTrust(ctx, lowestTrustUserLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "lowest_trust_failed")
		return dto.DashboardStatsResponse{}, err
	}

	summaries, err := s.dashboards.RecentSummaries(ctx, recentSummariesLimit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recent_summaries_failed")
		return dto.DashboardStatsResponse{}, err
	}

	stats := dto.DashboardStatsResponse{
		TotalThreads:     totalThreads,
		TotalPosts:       totalPosts,
		TotalUsers:       totalUsers,
		AverageSentiment: averageSentiment(sentiments),
		FlagsByStatus:    flagCounts,
		TopToxicThreads:  make([]dto.ToxicThreadEntry, 0, len(toxic)),
		LowestTrustUsers: make([]dto.TrustEntry, 0, len(lowestTrust)),
		RecentSummaries:  make([]dto.ThreadSummaryEntry, 0, len(summaries)),
		GeneratedAt:      s.now().UTC(),
		CacheHit:         false,
	}

	for _, thread := range toxic {
		entry := dto.ToxicThreadEntry{ID: thread.ID, Title: thread.Title, CreatedAt: thread.CreatedAt}
		if thread.ToxicityScore != nil {
			entry.ToxicityScore = *thread.ToxicityScore
		}
		stats.TopToxicThreads = append(stats.TopToxicThreads, entry)
	}

	for _, profile := range lowestTrust {
		stats.LowestTrustUsers = append(stats.LowestTrustUsers, dto.TrustEntry{
			UserID:     profile.ID,
			Username:   profile.Username,
			TrustScore: profile.TrustScore,
		})
	}

	for _, thread := range summaries {
		if thread.Summary == nil {
			continue
		}
		stats.RecentSummaries = append(stats.RecentSummaries, dto.ThreadSummaryEntry{
			ThreadID: thread.ID,
			Title:    thread.Title,
			Summary:  *thread.Summary,
		})
	}

	if s.cache != nil {
		payload, err := json.Marshal(stats)
		if err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return stats, nil
}

// averageSentiment guards the zero-thread case: no threads means 0, never a
// division error.
func averageSentiment(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}

	sum := 0.0
	for _, score := range scores {
		sum += score
	}
	return sum / float64(len(scores))
}
