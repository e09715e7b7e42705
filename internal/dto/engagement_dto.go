package dto

// ReactionTally holds per-type reaction counts for a post. Types with no
// reactions are present with a zero count.
type ReactionTally map[string]int64

// ReactionToggleResponse reports the outcome of a toggle operation.
type ReactionToggleResponse struct {
	PostID  uint   `json:"post_id"`
	Type    string `json:"type"`
	Applied bool   `json:"applied"`
}

// PostReactionsResponse combines the tally with the caller's own reactions.
type PostReactionsResponse struct {
	PostID        uint          `json:"post_id"`
	Tally         ReactionTally `json:"tally"`
	UserReactions []string      `json:"user_reactions"`
}
