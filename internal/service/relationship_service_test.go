package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFollowSelfRejected(t *testing.T) {
	env := setupEnv(t)
	svc := NewRelationshipService(env.follows, env.users)
	alice := env.user(t, "alice")

	require.ErrorIs(t, svc.Follow(context.Background(), alice.ID, "alice"), ErrFollowSelf)
}

func TestFollowUnknownUser(t *testing.T) {
	env := setupEnv(t)
	svc := NewRelationshipService(env.follows, env.users)
	alice := env.user(t, "alice")

	require.ErrorIs(t, svc.Follow(context.Background(), alice.ID, "ghost"), ErrNotFound)
}

func TestFollowUnfollowStats(t *testing.T) {
	env := setupEnv(t)
	svc := NewRelationshipService(env.follows, env.users)
	ctx := context.Background()
	alice := env.user(t, "alice")
	env.user(t, "bob")

	require.NoError(t, svc.Follow(ctx, alice.ID, "bob"))

	stats, err := svc.Stats(ctx, "bob", alice.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.FollowersCount)
	require.Zero(t, stats.FollowingCount)
	require.True(t, stats.IsFollowing)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, "bob"))
	stats, err = svc.Stats(ctx, "bob", alice.ID)
	require.NoError(t, err)
	require.Zero(t, stats.FollowersCount)
	require.False(t, stats.IsFollowing)
}
