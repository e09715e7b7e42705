package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agora-labs/agora-api/internal/models"
)

func TestReactionRepositoryToggleAddsAndRemoves(t *testing.T) {
	db := setupRepoTestDB(t, &models.Reaction{})
	repo := NewReactionRepository(db)
	ctx := context.Background()

	applied, err := repo.Toggle(ctx, 1, "user-1", models.ReactionLike)
	require.NoError(t, err)
	require.True(t, applied)

	counts, err := repo.Tally(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(1), counts[models.ReactionLike])

	applied, err = repo.Toggle(ctx, 1, "user-1", models.ReactionLike)
	require.NoError(t, err)
	require.False(t, applied)

	counts, err = repo.Tally(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), counts[models.ReactionLike])
}

func TestReactionRepositoryToggleIsPerType(t *testing.T) {
	db := setupRepoTestDB(t, &models.Reaction{})
	repo := NewReactionRepository(db)
	ctx := context.Background()

	applied, err := repo.Toggle(ctx, 1, "user-1", models.ReactionLike)
	require.NoError(t, err)
	require.True(t, applied)

	applied, err = repo.Toggle(ctx, 1, "user-1", models.ReactionLove)
	require.NoError(t, err)
	require.True(t, applied)

	kinds, err := repo.UserReactions(ctx, 1, "user-1")
	require.NoError(t, err)
	require.Equal(t, []string{models.ReactionLike, models.ReactionLove}, kinds)
}

func TestReactionRepositoryTallySeedsAllTypes(t *testing.T) {
	db := setupRepoTestDB(t, &models.Reaction{})
	repo := NewReactionRepository(db)
	ctx := context.Background()

	counts, err := repo.Tally(ctx, 42)
	require.NoError(t, err)
	require.Len(t, counts, len(models.ReactionTypes))
	for _, kind := range models.ReactionTypes {
		require.Equal(t, int64(0), counts[kind])
	}

	_, err = repo.Toggle(ctx, 42, "user-1", models.ReactionInsightful)
	require.NoError(t, err)
	_, err = repo.Toggle(ctx, 42, "user-2", models.ReactionInsightful)
	require.NoError(t, err)

	counts, err = repo.Tally(ctx, 42)
	require.NoError(t, err)
	require.Equal(t, int64(2), counts[models.ReactionInsightful])
	require.Equal(t, int64(0), counts[models.ReactionLike])
}

func TestReactionRepositoryUniqueIndexRejectsDuplicates(t *testing.T) {
	db := setupRepoTestDB(t, &models.Reaction{})
	ctx := context.Background()

	first := models.Reaction{PostID: 7, UserID: "user-1", Type: models.ReactionLike}
	require.NoError(t, db.WithContext(ctx).Create(&first).Error)

	dup := models.Reaction{PostID: 7, UserID: "user-1", Type: models.ReactionLike}
	err := db.WithContext(ctx).Create(&dup).Error
	require.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}
