package dto

import (
	"time"

	"github.com/agora-labs/agora-api/internal/models"
)

// FlagReportRequest is the payload for a user-initiated report.
type FlagReportRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=2000"`
}

// FlagReviewRequest carries a moderator decision for a pending flag.
type FlagReviewRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved removed"`
}

// FlagResponse is the serialized representation of a moderation flag.
type FlagResponse struct {
	ID           uint       `json:"id"`
	PostID       uint       `json:"post_id"`
	FlaggedBy    string     `json:"flagged_by"`
	Reason       string     `json:"reason"`
	AIConfidence *float64   `json:"ai_confidence,omitempty"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ReviewedAt   *time.Time `json:"reviewed_at,omitempty"`
}

// NewFlagResponse converts a flag model into a DTO.
func NewFlagResponse(flag models.Flag) FlagResponse {
	return FlagResponse{
		ID:           flag.ID,
		PostID:       flag.PostID,
		FlaggedBy:    flag.FlaggedBy,
		Reason:       flag.Reason,
		AIConfidence: flag.AIConfidence,
		Status:       flag.Status,
		CreatedAt:    flag.CreatedAt,
		ReviewedAt:   flag.ReviewedAt,
	}
}

// NewFlagResponseSlice converts a slice of flag models into DTOs.
func NewFlagResponseSlice(flags []models.Flag) []FlagResponse {
	out := make([]FlagResponse, 0, len(flags))
	for _, flag := range flags {
		out = append(out, NewFlagResponse(flag))
	}
	return out
}
