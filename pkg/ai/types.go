package ai

import "context"

// Classifier scores a piece of text for toxicity. Score returns a value in
// [0,1]; transport and parse failures are returned as errors and the caller
// decides how to recover from them.
type Classifier interface {
	Score(ctx context.Context, text string) (float64, error)
}

// Summarizer produces a short summary of the given text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}
