package service

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/maxmsylvain/Vanish/internal/repository"
	"github.com/maxmsylvain/Vanish/pkg/logger"
)

// Sweeper periodically removes posts whose retention window has elapsed.
// It owns its ticker: construct it, Start it, call the returned stop
// function on shutdown. A single goroutine runs the loop, so sweeps are
// single-flight; ticks that fire mid-sweep are dropped by the ticker.
type Sweeper struct {
	posts    repository.PostRepository
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

func NewSweeper(posts repository.PostRepository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		posts:    posts,
		interval: interval,
		timeout:  30 * time.Second,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Start launches the sweep loop and returns a stop function.
func (s *Sweeper) Start() func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				s.sweepOnce()
			}
		}
	}()
	return func(ctx context.Context) error {
		close(stop)
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// sweepOnce runs one sweep. Failures are logged and reported; the loop
// always reaches the next tick.
func (s *Sweeper) sweepOnce() {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("sweep panic: %v", r)
			logger.Error("sweep panicked", zap.Error(err))
			sentry.CaptureException(err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	removed, err := s.posts.DeleteExpired(ctx, s.now())
	if err != nil {
		logger.Error("sweep failed", zap.Error(err))
		sentry.CaptureException(err)
		return
	}
	if removed > 0 {
		logger.Info("sweep removed expired posts",
			zap.Int64("removed", removed),
			zap.Duration("took", time.Since(start)))
	}
}
