package models

import (
	"time"

	"gorm.io/datatypes"
)

// Sentiment labels derived for posts at creation time.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// Thread represents a top-level discussion topic.
type Thread struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	Title          string            `gorm:"size:255;not null" json:"title"`
	Description    string            `gorm:"type:text" json:"description"`
	CreatedBy      string            `gorm:"size:64;index" json:"created_by"`
	ToxicityScore  *float64          `json:"toxicity_score"`
	SentimentScore *float64          `json:"sentiment_score"`
	Summary        *string           `gorm:"type:text" json:"summary"`
	Metadata       datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	Posts          []Post            `json:"posts"`
}

// Post is a message within a thread. Posts form a reply tree via ParentID;
// root posts have a nil ParentID.
type Post struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ThreadID      uint      `gorm:"not null;index" json:"thread_id"`
	ParentID      *uint     `gorm:"index" json:"parent_id"`
	AuthorID      string    `gorm:"size:64;index" json:"author_id"`
	Content       string    `gorm:"type:text;not null" json:"content"`
	Sentiment     string    `gorm:"size:16;default:neutral" json:"sentiment"`
	ToxicityScore float64   `gorm:"not null;default:0" json:"toxicity_score"`
	IsFlagged     bool      `gorm:"not null;default:false;index" json:"is_flagged"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
