package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProfileListsOnlyActivePosts(t *testing.T) {
	env := setupEnv(t)
	svc := NewUserService(env.users, env.posts, testWindow, testBotWindow)
	ctx := context.Background()
	alice := env.user(t, "alice")

	now := time.Now().UTC()
	require.NoError(t, env.posts.Create(ctx, postAt(alice.ID, "current", now)))
	require.NoError(t, env.posts.Create(ctx, postAt(alice.ID, "expired", now.Add(-4*time.Hour))))

	profile, err := svc.Profile(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, alice.ID, profile.User.ID)
	require.Len(t, profile.Posts, 1)
	require.Equal(t, "current", profile.Posts[0].Content)

	_, err = svc.Profile(ctx, "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateBio(t *testing.T) {
	env := setupEnv(t)
	svc := NewUserService(env.users, env.posts, testWindow, testBotWindow)
	ctx := context.Background()
	alice := env.user(t, "alice")

	require.NoError(t, svc.UpdateBio(ctx, alice.ID, "hello world"))
	got, err := env.users.GetByID(ctx, alice.ID)
	require.NoError(t, err)
	require.Equal(t, "hello world", got.Bio)

	require.ErrorIs(t, svc.UpdateBio(ctx, "missing", "x"), ErrNotFound)
}

func TestSearchMatchesUsersAndActivePosts(t *testing.T) {
	env := setupEnv(t)
	svc := NewUserService(env.users, env.posts, testWindow, testBotWindow)
	ctx := context.Background()
	gopher := env.user(t, "gopher")
	env.user(t, "unrelated")

	now := time.Now().UTC()
	require.NoError(t, env.posts.Create(ctx, postAt(gopher.ID, "all about gophers", now)))
	require.NoError(t, env.posts.Create(ctx, postAt(gopher.ID, "gopher history", now.Add(-4*time.Hour))))

	res, err := svc.Search(ctx, "gopher")
	require.NoError(t, err)
	require.Len(t, res.Users, 1)
	require.Equal(t, "gopher", res.Users[0].Username)
	require.Len(t, res.Posts, 1)
	require.Equal(t, "all about gophers", res.Posts[0].Content)

	empty, err := svc.Search(ctx, "")
	require.NoError(t, err)
	require.Empty(t, empty.Users)
	require.Empty(t, empty.Posts)
}
