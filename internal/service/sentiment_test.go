package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agora-labs/agora-api/internal/models"
)

func TestSentimentLabel(t *testing.T) {
	policy := DefaultSentimentPolicy()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"positive", "this is a great and wonderful idea", models.SentimentPositive},
		{"negative", "what a terrible, awful experience", models.SentimentNegative},
		{"neutral", "the meeting is at noon", models.SentimentNeutral},
		{"balanced counts stay neutral", "good idea but bad timing", models.SentimentNeutral},
		{"toxic forces negative", "I love this, you stupid person", models.SentimentNegative},
		{"substring match", "that was the greatest show", models.SentimentPositive},
		{"case insensitive", "GREAT stuff", models.SentimentPositive},
		{"empty", "", models.SentimentNeutral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, policy.Label(tc.text))
		})
	}
}

func TestSentimentScore(t *testing.T) {
	policy := DefaultSentimentPolicy()

	require.Zero(t, policy.Score(""))
	require.Zero(t, policy.Score("the meeting is at noon"))

	score := policy.Score("love it, great stuff")
	require.Greater(t, score, 0.0)
	require.LessOrEqual(t, score, 1.0)

	score = policy.Score("hate this terrible thing")
	require.Less(t, score, 0.0)
	require.GreaterOrEqual(t, score, -1.0)

	// Single-word extremes pin the scale.
	require.InDelta(t, 1.0, policy.Score("love"), 1e-9)
	require.InDelta(t, -1.0, policy.Score("hate"), 1e-9)
}
