package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/models"
)

// ReactionRepository persists typed reactions on posts.
type ReactionRepository interface {
	// Toggle removes the reaction when present, inserts it otherwise, and
	// reports whether the reaction is applied afterwards. The whole
	// check-then-act runs in one transaction; the composite unique index on
	// (post_id, user_id, type) resolves concurrent inserts.
	Toggle(ctx context.Context, postID uint, userID, kind string) (bool, error)
	Tally(ctx context.Context, postID uint) (map[string]int64, error)
	UserReactions(ctx context.Context, postID uint, userID string) ([]string, error)
}

type reactionRepository struct {
	db *gorm.DB
}

// NewReactionRepository constructs a GORM-backed repository.
func NewReactionRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) Toggle(ctx context.Context, postID uint, userID, kind string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("post_id = ? AND user_id = ? AND type = ?", postID, userID, kind).
			Delete(&models.Reaction{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected > 0 {
			applied = false
			return nil
		}

		reaction := models.Reaction{PostID: postID, UserID: userID, Type: kind}
		if err := tx.Create(&reaction).Error; err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		// A duplicate-key failure means another toggle inserted the same row
		// first; the reaction exists, so report it as applied.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return true, nil
		}
		return false, err
	}

	return applied, nil
}

func (r *reactionRepository) Tally(ctx context.Context, postID uint) (map[string]int64, error) {
	type row struct {
		Type  string
		Total int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("type, COUNT(*) AS total").
		Where("post_id = ?", postID).
		Group("type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(models.ReactionTypes))
	for _, kind := range models.ReactionTypes {
		counts[kind] = 0
	}
	for _, r := range rows {
		counts[r.Type] = r.Total
	}

	return counts, nil
}

func (r *reactionRepository) UserReactions(ctx context.Context, postID uint, userID string) ([]string, error) {
	var kinds []string
	if err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Order("type ASC").
		Pluck("type", &kinds).Error; err != nil {
		return nil, err
	}
	return kinds, nil
}
