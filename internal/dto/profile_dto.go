package dto

import (
	"time"

	"github.com/agora-labs/agora-api/internal/models"
)

// ProfileResponse is the serialized representation of a user profile.
type ProfileResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	TrustScore int       `json:"trust_score"`
	AvatarURL  string    `json:"avatar_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewProfileResponse converts a profile model into a DTO.
func NewProfileResponse(profile models.Profile) ProfileResponse {
	return ProfileResponse{
		ID:         profile.ID,
		Username:   profile.Username,
		TrustScore: profile.TrustScore,
		AvatarURL:  profile.AvatarURL,
		CreatedAt:  profile.CreatedAt,
	}
}

// NewProfileResponseSlice converts a slice of profile models into DTOs.
func NewProfileResponseSlice(profiles []models.Profile) []ProfileResponse {
	out := make([]ProfileResponse, 0, len(profiles))
	for _, profile := range profiles {
		out = append(out, NewProfileResponse(profile))
	}
	return out
}
