package models

import "time"

// Flag status lifecycle: pending is the only initial state, approved and
// removed are both terminal.
const (
	FlagStatusPending  = "pending"
	FlagStatusApproved = "approved"
	FlagStatusRemoved  = "removed"
)

// FlaggedBySystem marks flags raised automatically by the moderation engine.
const FlaggedBySystem = "system"

// Flag is a moderation record tracking the review of a suspect post.
type Flag struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PostID       uint       `gorm:"not null;index" json:"post_id"`
	FlaggedBy    string     `gorm:"size:64;index" json:"flagged_by"`
	Reason       string     `gorm:"type:text" json:"reason"`
	AIConfidence *float64   `json:"ai_confidence"`
	Status       string     `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	ReviewedAt   *time.Time `json:"reviewed_at"`
}

// Decided reports whether the flag has left the pending state.
func (f Flag) Decided() bool {
	return f.Status == FlagStatusApproved || f.Status == FlagStatusRemoved
}
