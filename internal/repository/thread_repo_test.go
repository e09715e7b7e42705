package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/models"
)

func TestThreadRepositorySetScoresAndSummary(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{}, &models.Post{})
	repo := NewThreadRepository(db)
	ctx := context.Background()

	thread := models.Thread{Title: "Deployment pipelines", Description: "CI talk", CreatedBy: "user-1"}
	require.NoError(t, repo.Create(ctx, &thread))

	require.NoError(t, repo.SetScores(ctx, thread.ID, 0.42, -0.5))
	require.NoError(t, repo.SetSummary(ctx, thread.ID, "A debate about CI pipelines."))

	stored, err := repo.Get(ctx, thread.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.ToxicityScore)
	require.InDelta(t, 0.42, *stored.ToxicityScore, 1e-9)
	require.NotNil(t, stored.SentimentScore)
	require.InDelta(t, -0.5, *stored.SentimentScore, 1e-9)
	require.NotNil(t, stored.Summary)
	require.Equal(t, "A debate about CI pipelines.", *stored.Summary)
}

func TestThreadRepositorySetSummaryMissingThread(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{})
	repo := NewThreadRepository(db)

	err := repo.SetSummary(context.Background(), 404, "nope")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestThreadRepositoryGetWithPostsOrdersByCreatedAt(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{}, &models.Post{})
	threadRepo := NewThreadRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	thread := models.Thread{Title: "Ordering", CreatedBy: "user-1"}
	require.NoError(t, threadRepo.Create(ctx, &thread))

	now := time.Now().UTC()
	second := models.Post{ThreadID: thread.ID, AuthorID: "user-2", Content: "second", CreatedAt: now}
	first := models.Post{ThreadID: thread.ID, AuthorID: "user-1", Content: "first", CreatedAt: now.Add(-time.Minute)}
	require.NoError(t, postRepo.Create(ctx, &second))
	require.NoError(t, postRepo.Create(ctx, &first))

	stored, err := threadRepo.GetWithPosts(ctx, thread.ID)
	require.NoError(t, err)
	require.Len(t, stored.Posts, 2)
	require.Equal(t, "first", stored.Posts[0].Content)
	require.Equal(t, "second", stored.Posts[1].Content)
}

func TestPostRepositoryCreateBumpsThreadUpdatedAt(t *testing.T) {
	db := setupRepoTestDB(t, &models.Thread{}, &models.Post{})
	threadRepo := NewThreadRepository(db)
	postRepo := NewPostRepository(db)
	ctx := context.Background()

	thread := models.Thread{Title: "Activity", CreatedBy: "user-1"}
	require.NoError(t, threadRepo.Create(ctx, &thread))

	post := models.Post{ThreadID: thread.ID, AuthorID: "user-2", Content: "bump", CreatedAt: time.Now().Add(time.Hour).UTC()}
	require.NoError(t, postRepo.Create(ctx, &post))

	stored, err := threadRepo.Get(ctx, thread.ID)
	require.NoError(t, err)
	require.True(t, stored.UpdatedAt.After(thread.UpdatedAt))
}
