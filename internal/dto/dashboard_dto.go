package dto

import "time"

// ToxicThreadEntry is one row of the top-toxic-threads ranking.
type ToxicThreadEntry struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	ToxicityScore float64   `json:"toxicity_score"`
	CreatedAt     time.Time `json:"created_at"`
}

// TrustEntry exposes a user's externally maintained reputation score.
type TrustEntry struct {
	UserID     string `json:"user_id"`
	Username   string `json:"username"`
	TrustScore int    `json:"trust_score"`
}

// ThreadSummaryEntry is a recent AI summary shown on the dashboard.
type ThreadSummaryEntry struct {
	ThreadID uint   `json:"thread_id"`
	Title    string `json:"title"`
	Summary  string `json:"summary"`
}

// DashboardStatsResponse aggregates moderation and engagement statistics.
type DashboardStatsResponse struct {
	TotalThreads     int64                `json:"total_threads"`
	TotalPosts       int64                `json:"total_posts"`
	TotalUsers       int64                `json:"total_users"`
	AverageSentiment float64              `json:"average_sentiment"`
	FlagsByStatus    map[string]int64     `json:"flags_by_status"`
	TopToxicThreads  []ToxicThreadEntry   `json:"top_toxic_threads"`
	LowestTrustUsers []TrustEntry         `json:"lowest_trust_users"`
	RecentSummaries  []ThreadSummaryEntry `json:"recent_summaries"`
	GeneratedAt      time.Time            `json:"generated_at"`
	CacheHit         bool                 `json:"cache_hit"`
}
