package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/models"
)

// PostRepository persists posts within threads.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Get(ctx context.Context, id uint) (models.Post, error)
	ListByThread(ctx context.Context, threadID uint, limit, offset int) ([]models.Post, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository constructs a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(post).Error; err != nil {
			return err
		}

		// Bump the owning thread so listings surface active discussions.
		return tx.Model(&models.Thread{}).
			Where("id = ?", post.ThreadID).
			UpdateColumn("updated_at", post.CreatedAt).
			Error
	})
}

func (r *postRepository) Get(ctx context.Context, id uint) (models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *postRepository) ListByThread(ctx context.Context, threadID uint, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var posts []models.Post
	if err := r.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, err
	}

	return posts, nil
}
