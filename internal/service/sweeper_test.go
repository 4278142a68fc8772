package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maxmsylvain/Vanish/internal/repository"
)

// failingPostRepo fakes DeleteExpired; everything else panics if reached.
type failingPostRepo struct {
	repository.PostRepository
	calls atomic.Int64
	err   error
}

func (f *failingPostRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.calls.Add(1)
	return 0, f.err
}

func TestSweeperRemovesExpired(t *testing.T) {
	env := setupEnv(t)
	u := env.user(t, "alice")
	ctx := context.Background()

	t0 := time.Now().UTC()
	require.NoError(t, env.posts.Create(ctx, postAt(u.ID, "old", t0.Add(-4*time.Hour))))
	require.NoError(t, env.posts.Create(ctx, postAt(u.ID, "fresh", t0)))

	s := NewSweeper(env.posts, time.Minute)
	s.now = func() time.Time { return t0 }
	s.sweepOnce()

	active, err := env.posts.ListActive(ctx, t0, 0)
	require.NoError(t, err)
	require.Len(t, active, 1)
	require.Equal(t, "fresh", active[0].Content)
}

func TestSweeperSurvivesStoreFailure(t *testing.T) {
	repo := &failingPostRepo{err: errors.New("storage down")}
	s := NewSweeper(repo, 10*time.Millisecond)

	stop := s.Start()
	require.Eventually(t, func() bool { return repo.calls.Load() >= 3 },
		time.Second, 5*time.Millisecond, "failed sweeps must not stop the loop")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
}

func TestSweeperStopIsClean(t *testing.T) {
	env := setupEnv(t)
	s := NewSweeper(env.posts, 10*time.Millisecond)
	stop := s.Start()

	time.Sleep(30 * time.Millisecond)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, stop(ctx))
}
