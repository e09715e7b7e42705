package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/dto"
	"github.com/agora-labs/agora-api/internal/models"
	"github.com/agora-labs/agora-api/internal/repository"
)

const maxAvatarBytes = 5 << 20

// ErrUnsupportedAvatarType is returned when an avatar upload is not an image.
var ErrUnsupportedAvatarType = errors.New("avatar must be an image")

// FileUploader stores a file and returns its public URL.
type FileUploader interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// ProfileService manages locally stored user profiles. Authentication
// itself is delegated to the external identity provider; profiles are
// ensured on first authenticated request.
type ProfileService interface {
	EnsureProfile(ctx context.Context, id, username string) (dto.ProfileResponse, error)
	GetProfile(ctx context.Context, id string) (dto.ProfileResponse, error)
	// TrustScore returns the externally maintained reputation value, 0 when
	// the profile is absent.
	TrustScore(ctx context.Context, id string) (int, error)
	UploadAvatar(ctx context.Context, id, filename string, data []byte) (dto.ProfileResponse, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	uploader FileUploader
	logger   zerolog.Logger
}

// NewProfileService constructs a profile service.
func NewProfileService(profiles repository.ProfileRepository, uploader FileUploader, logger zerolog.Logger) ProfileService {
	return &profileService{
		profiles: profiles,
		uploader: uploader,
		logger:   logger.With().Str("component", "profile_service").Logger(),
	}
}

func (s *profileService) EnsureProfile(ctx context.Context, id, username string) (dto.ProfileResponse, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return dto.ProfileResponse{}, errors.New("profile id required")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		username = fmt.Sprintf("user-%s", id)
	}

	profile := models.Profile{ID: id, Username: username}
	if err := s.profiles.Ensure(ctx, &profile); err != nil {
		return dto.ProfileResponse{}, err
	}

	// Ensure is insert-or-ignore; read back so an existing row wins over
	// the defaults we just tried to insert.
	stored, err := s.profiles.Get(ctx, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}

	return dto.NewProfileResponse(stored), nil
}

func (s *profileService) GetProfile(ctx context.Context, id string) (dto.ProfileResponse, error) {
	profile, err := s.profiles.Get(ctx, id)
	if err != nil {
		return dto.ProfileResponse{}, err
	}
	return dto.NewProfileResponse(profile), nil
}

func (s *profileService) TrustScore(ctx context.Context, id string) (int, error) {
	profile, err := s.profiles.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return profile.TrustScore, nil
}

func (s *profileService) UploadAvatar(ctx context.Context, id, filename string, data []byte) (dto.ProfileResponse, error) {
	if s.uploader == nil {
		return dto.ProfileResponse{}, errors.New("avatar uploads not configured")
	}

	if len(data) == 0 || len(data) > maxAvatarBytes {
		return dto.ProfileResponse{}, fmt.Errorf("avatar size must be between 1 byte and %d bytes", maxAvatarBytes)
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return dto.ProfileResponse{}, ErrUnsupportedAvatarType
	}

	url, err := s.uploader.Upload(ctx, filename, bytes.NewReader(data))
	if err != nil {
		return dto.ProfileResponse{}, fmt.Errorf("avatar upload failed: %w", err)
	}

	if err := s.profiles.SetAvatarURL(ctx, id, url); err != nil {
		return dto.ProfileResponse{}, err
	}

	s.logger.Info().Str("user_id", id).Str("mime", detected.String()).Msg("avatar updated")

	return s.GetProfile(ctx, id)
}
