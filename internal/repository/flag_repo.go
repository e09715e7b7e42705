package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/models"
)

// FlagRepository persists moderation flags.
type FlagRepository interface {
	Create(ctx context.Context, flag *models.Flag) error
	Get(ctx context.Context, id uint) (models.Flag, error)
	List(ctx context.Context, status string, limit, offset int) ([]models.Flag, error)
	// Decide transitions a pending flag to the given terminal status and
	// stamps reviewed_at. It returns the number of rows updated: zero means
	// the flag was absent or already decided, so concurrent reviews cannot
	// both succeed.
	Decide(ctx context.Context, id uint, status string, reviewedAt time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type flagRepository struct {
	db *gorm.DB
}

// NewFlagRepository constructs a GORM-backed repository.
func NewFlagRepository(db *gorm.DB) FlagRepository {
	return &flagRepository{db: db}
}

func (r *flagRepository) Create(ctx context.Context, flag *models.Flag) error {
	return r.db.WithContext(ctx).Create(flag).Error
}

func (r *flagRepository) Get(ctx context.Context, id uint) (models.Flag, error) {
	var flag models.Flag
	if err := r.db.WithContext(ctx).First(&flag, id).Error; err != nil {
		return models.Flag{}, err
	}
	return flag, nil
}

func (r *flagRepository) List(ctx context.Context, status string, limit, offset int) ([]models.Flag, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Flag{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var flags []models.Flag
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&flags).Error; err != nil {
		return nil, err
	}

	return flags, nil
}

func (r *flagRepository) Decide(ctx context.Context, id uint, status string, reviewedAt time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Flag{}).
		Where("id = ? AND status = ?", id, models.FlagStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": reviewedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *flagRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		Total  int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).Model(&models.Flag{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := map[string]int64{
		models.FlagStatusPending:  0,
		models.FlagStatusApproved: 0,
		models.FlagStatusRemoved:  0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Total
	}

	return counts, nil
}
