package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/maxmsylvain/Vanish/internal/cache"
)

func newTestPostService(env *testEnv) *postService {
	svc := NewPostService(env.posts, env.users, nil, testWindow, testBotWindow, 500)
	return svc.(*postService)
}

func TestCreateRejectsEmptyContent(t *testing.T) {
	env := setupEnv(t)
	svc := newTestPostService(env)
	u := env.user(t, "alice")

	_, err := svc.Create(context.Background(), u.ID, "", nil)
	require.ErrorIs(t, err, ErrEmptyContent)

	_, err = svc.Create(context.Background(), u.ID, "   \n\t ", nil)
	require.ErrorIs(t, err, ErrEmptyContent)
}

func TestCreateRejectsOversizedContent(t *testing.T) {
	env := setupEnv(t)
	svc := newTestPostService(env)
	u := env.user(t, "alice")

	_, err := svc.Create(context.Background(), u.ID, strings.Repeat("x", 501), nil)
	require.ErrorIs(t, err, ErrContentTooLong)

	_, err = svc.Create(context.Background(), u.ID, strings.Repeat("x", 500), nil)
	require.NoError(t, err)
}

func TestCreateReplyRequiresParent(t *testing.T) {
	env := setupEnv(t)
	svc := newTestPostService(env)
	u := env.user(t, "alice")

	missing := "no-such-post"
	_, err := svc.Create(context.Background(), u.ID, "orphan", &missing)
	require.ErrorIs(t, err, ErrNotFound)

	parent, err := svc.Create(context.Background(), u.ID, "root", nil)
	require.NoError(t, err)
	reply, err := svc.Create(context.Background(), u.ID, "child", &parent.ID)
	require.NoError(t, err)
	require.Equal(t, parent.ID, *reply.ParentID)

	replies, err := svc.ListReplies(context.Background(), parent.ID)
	require.NoError(t, err)
	require.Len(t, replies, 1)
	require.Equal(t, "child", replies[0].Content)
}

func TestFeedNeverShowsExpired(t *testing.T) {
	env := setupEnv(t)
	svc := newTestPostService(env)
	u := env.user(t, "alice")

	t0 := time.Now().UTC()
	svc.now = func() time.Time { return t0 }
	_, err := svc.Create(context.Background(), u.ID, "short lived", nil)
	require.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(2*time.Hour + 59*time.Minute) }
	feed, err := svc.ListFeed(context.Background(), u.ID, FeedAll)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.InDelta(t, 60.0, feed[0].RemainingSeconds, 1.0)
	require.Equal(t, "alice", feed[0].Username)

	// past the window, even without a sweep having run
	svc.now = func() time.Time { return t0.Add(3*time.Hour + time.Minute) }
	feed, err = svc.ListFeed(context.Background(), u.ID, FeedAll)
	require.NoError(t, err)
	require.Empty(t, feed)
}

func TestRemainingClampsAtZero(t *testing.T) {
	env := setupEnv(t)
	svc := newTestPostService(env)
	u := env.user(t, "alice")

	t0 := time.Now().UTC()
	svc.now = func() time.Time { return t0 }
	view, err := svc.Create(context.Background(), u.ID, "hello", nil)
	require.NoError(t, err)

	svc.now = func() time.Time { return t0.Add(5 * time.Hour) }
	left, err := svc.Remaining(context.Background(), view.ID)
	require.NoError(t, err)
	require.Zero(t, left)
}

func TestDeleteOnlyByAuthor(t *testing.T) {
	env := setupEnv(t)
	svc := newTestPostService(env)
	alice := env.user(t, "alice")
	mallory := env.user(t, "mallory")

	view, err := svc.Create(context.Background(), alice.ID, "mine", nil)
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(context.Background(), mallory.ID, view.ID), ErrForbidden)
	require.NoError(t, svc.Delete(context.Background(), alice.ID, view.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), alice.ID, view.ID), ErrNotFound)
}

func TestCreateInvalidatesFeedCache(t *testing.T) {
	env := setupEnv(t)
	mr := miniredis.RunT(t)
	feedCache := cache.NewFeedCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	svc := NewPostService(env.posts, env.users, feedCache, testWindow, testBotWindow, 500).(*postService)
	u := env.user(t, "alice")
	ctx := context.Background()

	_, err := svc.Create(ctx, u.ID, "first", nil)
	require.NoError(t, err)

	// warm the cache
	feed, err := svc.ListFeed(ctx, u.ID, FeedAll)
	require.NoError(t, err)
	require.Len(t, feed, 1)

	// a new post must show up immediately, not after the TTL
	_, err = svc.Create(ctx, u.ID, "second", nil)
	require.NoError(t, err)
	feed, err = svc.ListFeed(ctx, u.ID, FeedAll)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	require.Equal(t, "second", feed[0].Content)
}

func TestFollowedFeed(t *testing.T) {
	env := setupEnv(t)
	svc := newTestPostService(env)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	require.NoError(t, env.follows.Create(context.Background(), alice.ID, bob.ID))

	_, err := svc.Create(context.Background(), bob.ID, "from bob", nil)
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), carol.ID, "from carol", nil)
	require.NoError(t, err)

	feed, err := svc.ListFeed(context.Background(), alice.ID, FeedFollowed)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	require.Equal(t, "from bob", feed[0].Content)
}
