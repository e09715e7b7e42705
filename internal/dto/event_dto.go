package dto

import "time"

// Change feed entity and action names. Consumers treat delivery as
// at-least-once and re-fetch rather than applying events blindly.
const (
	EventEntityPost = "post"
	EventEntityFlag = "flag"

	EventActionInsert = "insert"
	EventActionUpdate = "update"
)

// ChangeEvent notifies subscribers that a post or flag row changed.
type ChangeEvent struct {
	Entity     string    `json:"entity"`
	Action     string    `json:"action"`
	EntityID   uint      `json:"entity_id"`
	ThreadID   uint      `json:"thread_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
