package models

import "time"

// Profile stores the locally maintained record for an externally
// authenticated user. ID is the subject issued by the identity provider.
// TrustScore is supplied externally; this service only reads it.
type Profile struct {
	ID         string    `gorm:"primaryKey;size:64" json:"id"`
	Username   string    `gorm:"size:128;index" json:"username"`
	TrustScore int       `gorm:"not null;default:0" json:"trust_score"`
	AvatarURL  string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
