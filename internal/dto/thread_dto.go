package dto

import (
	"time"

	"github.com/agora-labs/agora-api/internal/models"
)

// ThreadCreateRequest is the payload to create a discussion thread.
type ThreadCreateRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=255"`
	Description string `json:"description" validate:"omitempty,max=4000"`
}

// ThreadResponse is the serialized representation of a thread.
type ThreadResponse struct {
	ID             uint           `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	CreatedBy      string         `json:"created_by"`
	ToxicityScore  *float64       `json:"toxicity_score,omitempty"`
	SentimentScore *float64       `json:"sentiment_score,omitempty"`
	Summary        *string        `json:"summary,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	Posts          []PostResponse `json:"posts,omitempty"`
}

// NewThreadResponse converts a thread model into a DTO.
func NewThreadResponse(thread models.Thread) ThreadResponse {
	return ThreadResponse{
		ID:             thread.ID,
		Title:          thread.Title,
		Description:    thread.Description,
		CreatedBy:      thread.CreatedBy,
		ToxicityScore:  thread.ToxicityScore,
		SentimentScore: thread.SentimentScore,
		Summary:        thread.Summary,
		CreatedAt:      thread.CreatedAt,
		UpdatedAt:      thread.UpdatedAt,
		Posts:          NewPostResponseSlice(thread.Posts),
	}
}

// NewThreadResponseSlice converts a slice of thread models into DTOs.
func NewThreadResponseSlice(threads []models.Thread) []ThreadResponse {
	out := make([]ThreadResponse, 0, len(threads))
	for _, thread := range threads {
		out = append(out, NewThreadResponse(thread))
	}
	return out
}

// SummaryResponse carries an AI-generated summary for a thread or post.
// Available is false when the summarizer could not produce one.
type SummaryResponse struct {
	Summary   string `json:"summary"`
	Available bool   `json:"available"`
}
