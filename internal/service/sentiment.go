package service

import (
	"strings"

	"github.com/agora-labs/agora-api/internal/models"
)

// SentimentPolicy is the keyword word-list heuristic used to label content.
// It is a fixed substring matcher, not a statistical model; the word lists
// are the single tunable source of truth.
type SentimentPolicy struct {
	Positive []string
	Negative []string
	Toxic    []string
}

// DefaultSentimentPolicy returns the stock word lists.
func DefaultSentimentPolicy() SentimentPolicy {
	return SentimentPolicy{
		Positive: []string{"love", "great", "awesome", "excellent", "happy", "good", "wonderful", "amazing"},
		Negative: []string{"hate", "bad", "terrible", "awful", "sad", "angry", "horrible", "worst"},
		Toxic:    []string{"stupid", "idiot", "dumb", "kill", "die"},
	}
}

// Label classifies text as positive, negative or neutral. Any toxic keyword
// match forces negative.
func (p SentimentPolicy) Label(text string) string {
	positive, negative, toxic := p.counts(text)

	if toxic > 0 {
		return models.SentimentNegative
	}
	if positive > negative {
		return models.SentimentPositive
	}
	if negative > positive {
		return models.SentimentNegative
	}
	return models.SentimentNeutral
}

// Score maps text onto [-1,1]: the normalized difference between positive
// and negative keyword hits.
func (p SentimentPolicy) Score(text string) float64 {
	positive, negative, _ := p.counts(text)

	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	score := float64(positive-negative) / float64(words)
	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}

func (p SentimentPolicy) counts(text string) (positive, negative, toxic int) {
	for _, word := range strings.Fields(strings.ToLower(text)) {
		if matchesAny(word, p.Positive) {
			positive++
		}
		if matchesAny(word, p.Negative) {
			negative++
		}
		if matchesAny(word, p.Toxic) {
			toxic++
		}
	}
	return positive, negative, toxic
}

func matchesAny(word string, list []string) bool {
	for _, keyword := range list {
		if strings.Contains(word, keyword) {
			return true
		}
	}
	return false
}
