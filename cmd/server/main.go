package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maxmsylvain/Vanish/config"
	"github.com/maxmsylvain/Vanish/internal/api"
	"github.com/maxmsylvain/Vanish/internal/api/handler"
	"github.com/maxmsylvain/Vanish/internal/cache"
	"github.com/maxmsylvain/Vanish/internal/repository"
	"github.com/maxmsylvain/Vanish/internal/service"
	"github.com/maxmsylvain/Vanish/pkg/database"
	"github.com/maxmsylvain/Vanish/pkg/logger"
	"github.com/maxmsylvain/Vanish/pkg/tracing"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func main() {
	cfg := must(config.Load())
	if err := logger.Init(cfg.Log.Level); err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.Auth.Secret == "" {
		logger.Error("auth.secret (SECRET_KEY) must be set")
		os.Exit(1)
	}

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	shutdownTracing := must(tracing.Init(context.Background(), cfg.Tracing.Endpoint))

	db := must(database.InitDB(cfg))

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, feed cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	feedCache := cache.NewFeedCache(redisClient, cfg.Redis.FeedTTL)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db, cfg.Retention.Window, cfg.Retention.BotWindow)
	followRepo := repository.NewFollowRepository(db)

	authSvc := service.NewAuthService(userRepo, cfg.Auth.Secret, cfg.Auth.TokenTTL)
	postSvc := service.NewPostService(postRepo, userRepo, feedCache, cfg.Retention.Window, cfg.Retention.BotWindow, cfg.Posts.ContentMax)
	userSvc := service.NewUserService(userRepo, postRepo, cfg.Retention.Window, cfg.Retention.BotWindow)
	relSvc := service.NewRelationshipService(followRepo, userRepo)

	sweeper := service.NewSweeper(postRepo, cfg.Retention.SweepInterval)
	stopSweeper := sweeper.Start()
	logger.Info("sweeper started",
		zap.Duration("interval", cfg.Retention.SweepInterval),
		zap.Duration("window", cfg.Retention.Window),
		zap.Duration("bot_window", cfg.Retention.BotWindow))

	var stopBots func(context.Context) error
	if cfg.Bots.Enabled {
		bots := service.NewNewsBotWorker(userRepo, postRepo, cfg.Bots, cfg.Retention.BotWindow)
		if err := bots.EnsureBots(context.Background()); err != nil {
			logger.Error("bot setup failed", zap.Error(err))
			os.Exit(1)
		}
		stopBots = bots.Start()
		logger.Info("news bots started", zap.Duration("interval", cfg.Bots.Interval))
	}

	h := handler.New(authSvc, postSvc, userSvc, relSvc)
	router := api.NewRouter(cfg, h, authSvc)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	if stopBots != nil {
		if err := stopBots(ctx); err != nil {
			logger.Warn("bot shutdown incomplete", zap.Error(err))
		}
	}
	if err := stopSweeper(ctx); err != nil {
		logger.Warn("sweeper shutdown incomplete", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("tracing shutdown failed", zap.Error(err))
	}
}
