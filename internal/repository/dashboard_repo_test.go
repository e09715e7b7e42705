package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agora-labs/agora-api/internal/models"
)

func seedScoredThread(t *testing.T, repo ThreadRepository, title string, toxicity float64, createdAt time.Time) models.Thread {
	t.Helper()
	thread := models.Thread{Title: title, CreatedBy: "user-1", CreatedAt: createdAt}
	require.NoError(t, repo.Create(context.Background(), &thread))
	require.NoError(t, repo.SetScores(context.Background(), thread.ID, toxicity, 0))
	return thread
}

func TestDashboardRepositoryTopToxicThreadsOrdersAndTieBreaks(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{})
	threadRepo := NewThreadRepository(db)
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	seedScoredThread(t, threadRepo, "mild", 0.2, now)
	older := seedScoredThread(t, threadRepo, "hot-older", 0.9, now.Add(-2*time.Hour))
	newer := seedScoredThread(t, threadRepo, "hot-newer", 0.9, now.Add(-time.Hour))
	seedScoredThread(t, threadRepo, "medium", 0.5, now)

	top, err := repo.TopToxicThreads(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	require.Equal(t, newer.ID, top[0].ID, "equal scores should rank the newer thread first")
	require.Equal(t, older.ID, top[1].ID)
	require.Equal(t, "medium", top[2].Title)
}

func TestDashboardRepositoryTopToxicThreadsRanksUnscoredAsZero(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{})
	threadRepo := NewThreadRepository(db)
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	for i, score := range []float64{0.9, 0.6, 0.3, 0.1} {
		seedScoredThread(t, threadRepo, "scored", score, now.Add(-time.Duration(i)*time.Hour))
	}
	for i := 0; i < 4; i++ {
		unscored := models.Thread{Title: "unscored", CreatedBy: "user-1"}
		require.NoError(t, threadRepo.Create(ctx, &unscored))
	}

	top, err := repo.TopToxicThreads(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 5, "unscored threads rank as zero and still fill the list")
	require.Equal(t, "unscored", top[4].Title)
}

func TestDashboardRepositorySentimentScoresCoalesceUnscored(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{})
	threadRepo := NewThreadRepository(db)
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	thread := models.Thread{Title: "scored", CreatedBy: "user-1"}
	require.NoError(t, threadRepo.Create(ctx, &thread))
	require.NoError(t, threadRepo.SetScores(ctx, thread.ID, 0.1, 0.8))

	unscored := models.Thread{Title: "unscored", CreatedBy: "user-1"}
	require.NoError(t, threadRepo.Create(ctx, &unscored))

	scores, err := repo.SentimentScores(ctx)
	require.NoError(t, err)
	require.Len(t, scores, 2, "unscored threads count as zero rather than dropping out")

	var sum float64
	for _, score := range scores {
		sum += score
	}
	require.InDelta(t, 0.4, sum/float64(len(scores)), 1e-9)
}

func TestDashboardRepositoryCounts(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{}, &models.Post{})
	threadRepo := NewThreadRepository(db)
	postRepo := NewPostRepository(db)
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	thread := models.Thread{Title: "counts", CreatedBy: "user-1"}
	require.NoError(t, threadRepo.Create(ctx, &thread))
	require.NoError(t, postRepo.Create(ctx, &models.Post{ThreadID: thread.ID, AuthorID: "user-1", Content: "one"}))
	require.NoError(t, postRepo.Create(ctx, &models.Post{ThreadID: thread.ID, AuthorID: "user-2", Content: "two"}))

	threads, err := repo.CountThreads(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), threads)

	posts, err := repo.CountPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), posts)
}

func TestDashboardRepositoryRecentSummaries(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{})
	threadRepo := NewThreadRepository(db)
	repo := NewDashboardRepository(db)
	ctx := context.Background()

	summarized := models.Thread{Title: "summarized", CreatedBy: "user-1"}
	require.NoError(t, threadRepo.Create(ctx, &summarized))
	require.NoError(t, threadRepo.SetSummary(ctx, summarized.ID, "short recap"))

	bare := models.Thread{Title: "bare", CreatedBy: "user-1"}
	require.NoError(t, threadRepo.Create(ctx, &bare))

	recent, err := repo.RecentSummaries(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, summarized.ID, recent[0].ID)
}
