package models

import "time"

// Reaction types a user may attach to a post.
const (
	ReactionLike       = "like"
	ReactionLove       = "love"
	ReactionInsightful = "insightful"
)

// ReactionTypes lists the valid reaction types in display order.
var ReactionTypes = []string{ReactionLike, ReactionLove, ReactionInsightful}

// ValidReactionType reports whether the given type is one of the known kinds.
func ValidReactionType(kind string) bool {
	for _, t := range ReactionTypes {
		if t == kind {
			return true
		}
	}
	return false
}

// Reaction is a typed endorsement a user attaches to a post. The composite
// unique index guarantees at most one row per (post, user, type) even under
// concurrent toggles.
type Reaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;uniqueIndex:idx_reactions_post_user_type" json:"post_id"`
	UserID    string    `gorm:"size:64;not null;uniqueIndex:idx_reactions_post_user_type" json:"user_id"`
	Type      string    `gorm:"size:16;not null;uniqueIndex:idx_reactions_post_user_type" json:"type"`
	CreatedAt time.Time `json:"created_at"`
}
