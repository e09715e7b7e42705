package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/agora-labs/agora-api/internal/models"
)

// ProfileRepository persists user profiles keyed by the identity provider
// subject.
type ProfileRepository interface {
	// Ensure creates the profile when absent and leaves an existing row
	// untouched (first-login upsert).
	Ensure(ctx context.Context, profile *models.Profile) error
	Get(ctx context.Context, id string) (models.Profile, error)
	SetAvatarURL(ctx context.Context, id, url string) error
	ListLowestTrust(ctx context.Context, limit int) ([]models.Profile, error)
	Count(ctx context.Context) (int64, error)
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository constructs a GORM-backed repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Ensure(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(profile).Error
}

func (r *profileRepository) Get(ctx context.Context, id string) (models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

func (r *profileRepository) SetAvatarURL(ctx context.Context, id, url string) error {
	result := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("id = ?", id).
		UpdateColumn("avatar_url", url)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *profileRepository) ListLowestTrust(ctx context.Context, limit int) ([]models.Profile, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var profiles []models.Profile
	if err := r.db.WithContext(ctx).
		Order("trust_score ASC").
		Limit(limit).
		Find(&profiles).Error; err != nil {
		return nil, err
	}

	return profiles, nil
}

func (r *profileRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Profile{}).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
