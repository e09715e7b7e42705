package service

import "errors"

var (
	// ErrInvalidTransition is returned when a moderator tries to review a
	// flag that is no longer pending. Flags are one-shot.
	ErrInvalidTransition = errors.New("flag already decided")

	// ErrCrossThreadParent is returned when a reply references a parent
	// post that lives in a different thread.
	ErrCrossThreadParent = errors.New("parent post belongs to a different thread")

	// ErrInvalidReaction is returned for unknown reaction types.
	ErrInvalidReaction = errors.New("unknown reaction type")

	// ErrInvalidDecision is returned for review decisions outside
	// {approved, removed}.
	ErrInvalidDecision = errors.New("invalid review decision")
)
