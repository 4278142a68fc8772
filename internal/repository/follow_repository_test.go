package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFollowCreateIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")

	require.NoError(t, repo.Create(ctx, a.ID, b.ID))
	// following twice is not an error and adds no edge
	require.NoError(t, repo.Create(ctx, a.ID, b.ID))

	cnt, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, cnt)
}

func TestFollowCountsAndExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	c := seedUser(t, db, "c")

	require.NoError(t, repo.Create(ctx, a.ID, c.ID))
	require.NoError(t, repo.Create(ctx, b.ID, c.ID))
	require.NoError(t, repo.Create(ctx, c.ID, a.ID))

	followers, err := repo.CountFollowers(ctx, c.ID)
	require.NoError(t, err)
	require.EqualValues(t, 2, followers)

	following, err := repo.CountFollowing(ctx, c.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, following)

	ok, err := repo.Exists(ctx, a.ID, c.ID)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.Delete(ctx, a.ID, c.ID))
	ok, err = repo.Exists(ctx, a.ID, c.ID)
	require.NoError(t, err)
	require.False(t, ok)
}
