package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/maxmsylvain/Vanish/internal/model"
	"github.com/maxmsylvain/Vanish/pkg/logger"
)

const feedKey = "vanish:feed:all"

// FeedCache holds a short-TTL snapshot of the global feed in Redis,
// invalidated on every write. A nil *FeedCache is valid and does nothing,
// so the service layer never branches on whether Redis is configured.
// Remaining time is always recomputed on read, so a cached row can never
// outlive its retention window in API responses.
type FeedCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewFeedCache(client *redis.Client, ttl time.Duration) *FeedCache {
	if client == nil {
		return nil
	}
	return &FeedCache{client: client, ttl: ttl}
}

func (c *FeedCache) Get(ctx context.Context) ([]*model.Post, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, feedKey).Bytes()
	if err != nil {
		return nil, false
	}
	var posts []*model.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return nil, false
	}
	return posts, true
}

func (c *FeedCache) Set(ctx context.Context, posts []*model.Post) {
	if c == nil {
		return
	}
	data, err := json.Marshal(posts)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, feedKey, data, c.ttl).Err(); err != nil {
		logger.Warn("feed cache set failed", zap.Error(err))
	}
}

func (c *FeedCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, feedKey).Err(); err != nil {
		logger.Warn("feed cache invalidate failed", zap.Error(err))
	}
}
