package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/models"
)

// ThreadRepository persists discussion threads. Threads are immutable after
// creation except for the derived toxicity/sentiment/summary columns, so no
// general update method is exposed.
type ThreadRepository interface {
	Create(ctx context.Context, thread *models.Thread) error
	List(ctx context.Context, limit, offset int) ([]models.Thread, error)
	Get(ctx context.Context, id uint) (models.Thread, error)
	GetWithPosts(ctx context.Context, id uint) (models.Thread, error)
	SetSummary(ctx context.Context, id uint, summary string) error
	SetScores(ctx context.Context, id uint, toxicity, sentiment float64) error
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository constructs a GORM-backed repository.
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

func (r *threadRepository) Create(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Create(thread).Error
}

func (r *threadRepository) List(ctx context.Context, limit, offset int) ([]models.Thread, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var threads []models.Thread
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&threads).Error; err != nil {
		return nil, err
	}

	return threads, nil
}

func (r *threadRepository) Get(ctx context.Context, id uint) (models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).First(&thread, id).Error; err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}

func (r *threadRepository) GetWithPosts(ctx context.Context, id uint) (models.Thread, error) {
	var thread models.Thread
	if err := r.db.WithContext(ctx).Preload("Posts", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&thread, id).Error; err != nil {
		return models.Thread{}, err
	}
	return thread, nil
}

func (r *threadRepository) SetSummary(ctx context.Context, id uint, summary string) error {
	result := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ?", id).
		UpdateColumn("summary", summary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *threadRepository) SetScores(ctx context.Context, id uint, toxicity, sentiment float64) error {
	result := r.db.WithContext(ctx).Model(&models.Thread{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			"toxicity_score":  toxicity,
			"sentiment_score": sentiment,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
