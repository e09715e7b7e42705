package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/models"
)

// DashboardRepository exposes the read-only aggregate queries backing the
// moderation dashboard.
type DashboardRepository interface {
	CountThreads(ctx context.Context) (int64, error)
	CountPosts(ctx context.Context) (int64, error)
	// SentimentScores returns one score per thread; threads not yet scored
	// count as 0 so they still weigh into the average.
	SentimentScores(ctx context.Context) ([]float64, error)
	// TopToxicThreads orders by toxicity descending with created_at
	// descending as the tie-break. Unscored threads rank as 0.
	TopToxicThreads(ctx context.Context, limit int) ([]models.Thread, error)
	RecentSummaries(ctx context.Context, limit int) ([]models.Thread, error)
}

type dashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository constructs a GORM-backed repository.
func NewDashboardRepository(db *gorm.DB) DashboardRepository {
	return &dashboardRepository{db: db}
}

func (r *dashboardRepository) CountThreads(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Thread{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *dashboardRepository) CountPosts(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *dashboardRepository) SentimentScores(ctx context.Context) ([]float64, error) {
	var scores []float64
	if err := r.db.WithContext(ctx).Model(&models.Thread{}).
		Pluck("COALESCE(sentiment_score, 0)", &scores).Error; err != nil {
		return nil, err
	}
	return scores, nil
}

func (r *dashboardRepository) TopToxicThreads(ctx context.Context, limit int) ([]models.Thread, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var threads []models.Thread
	if err := r.db.WithContext(ctx).
		Order("COALESCE(toxicity_score, 0) DESC, created_at DESC").
		Limit(limit).
		Find(&threads).Error; err != nil {
		return nil, err
	}

	return threads, nil
}

func (r *dashboardRepository) RecentSummaries(ctx context.Context, limit int) ([]models.Thread, error) {
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	var threads []models.Thread
	if err := r.db.WithContext(ctx).
		Where("summary IS NOT NULL").
		Order("created_at DESC").
		Limit(limit).
		Find(&threads).Error; err != nil {
		return nil, err
	}

	return threads, nil
}
