package dto

import (
	"time"

	"github.com/agora-labs/agora-api/internal/models"
)

// PostCreateRequest is the payload to submit a post. ParentID, when set,
// must reference a post in the same thread.
type PostCreateRequest struct {
	ThreadID uint   `json:"thread_id" validate:"required"`
	ParentID *uint  `json:"parent_id" validate:"omitempty"`
	Content  string `json:"content" validate:"required,min=1,max=8000"`
}

// PostResponse is the serialized representation of a post.
type PostResponse struct {
	ID            uint      `json:"id"`
	ThreadID      uint      `json:"thread_id"`
	ParentID      *uint     `json:"parent_id,omitempty"`
	AuthorID      string    `json:"author_id"`
	Content       string    `json:"content"`
	Sentiment     string    `json:"sentiment"`
	ToxicityScore float64   `json:"toxicity_score"`
	IsFlagged     bool      `json:"is_flagged"`
	CreatedAt     time.Time `json:"created_at"`
}

// PostCreateResponse pairs the stored post with the moderation outcome.
type PostCreateResponse struct {
	Post    PostResponse `json:"post"`
	Flagged bool         `json:"flagged"`
}

// NewPostResponse converts a post model into a DTO.
func NewPostResponse(post models.Post) PostResponse {
	return PostResponse{
		ID:            post.ID,
		ThreadID:      post.ThreadID,
		ParentID:      post.ParentID,
		AuthorID:      post.AuthorID,
		Content:       post.Content,
		Sentiment:     post.Sentiment,
		ToxicityScore: post.ToxicityScore,
		IsFlagged:     post.IsFlagged,
		CreatedAt:     post.CreatedAt,
	}
}

// NewPostResponseSlice converts a slice of post models into DTOs.
func NewPostResponseSlice(posts []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, post := range posts {
		out = append(out, NewPostResponse(post))
	}
	return out
}
