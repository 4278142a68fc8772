package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/maxmsylvain/Vanish/config"
	"github.com/maxmsylvain/Vanish/internal/model"
)

func botConfig() config.BotsConfig {
	return config.BotsConfig{
		Enabled:  true,
		Interval: time.Second,
		MaxLive:  5,
		Sources: []config.BotSource{
			{Name: "Example News", URL: "http://example.com/rss", Category: "general"},
			{Name: "Example Markets", URL: "http://example.com/markets", Category: "financial"},
		},
	}
}

func TestEnsureBotsIdempotent(t *testing.T) {
	env := setupEnv(t)
	w := NewNewsBotWorker(env.users, env.posts, botConfig(), testBotWindow)
	ctx := context.Background()

	require.NoError(t, w.EnsureBots(ctx))
	require.NoError(t, w.EnsureBots(ctx))

	news, err := env.users.GetByUsername(ctx, "news_bot")
	require.NoError(t, err)
	require.Equal(t, "news_bot@vanish.com", news.Email)
	_, err = env.users.GetByUsername(ctx, "finance_bot")
	require.NoError(t, err)
	// no political source configured, so no politics bot
	_, err = env.users.GetByUsername(ctx, "politics_bot")
	require.Error(t, err)
}

func TestEvictOverCap(t *testing.T) {
	env := setupEnv(t)
	w := NewNewsBotWorker(env.users, env.posts, botConfig(), testBotWindow)
	ctx := context.Background()
	require.NoError(t, w.EnsureBots(ctx))
	bot := w.bots["general"]

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		p := &model.Post{
			UserID:    bot.ID,
			Content:   fmt.Sprintf("headline %d", i),
			PostType:  model.PostTypeBot,
			CreatedAt: now.Add(time.Duration(i-5) * time.Minute),
		}
		require.NoError(t, env.posts.Create(ctx, p))
	}

	require.NoError(t, w.evictOverCap(ctx, bot, now))

	cnt, err := env.posts.CountRecentByAuthor(ctx, bot.ID, model.PostTypeBot, now.Add(-testBotWindow))
	require.NoError(t, err)
	require.EqualValues(t, 4, cnt)

	// the oldest headline is the one that went
	remaining, err := env.posts.ListActiveByAuthor(ctx, bot.ID, now)
	require.NoError(t, err)
	for _, p := range remaining {
		require.NotEqual(t, "headline 0", p.Content)
	}
}

func TestPlainText(t *testing.T) {
	require.Equal(t, "hello world", plainText("<p>hello <b>world</b></p>"))
	require.Equal(t, "", plainText(""))

	long := plainText("<p>" + strings.Repeat("a", 300) + "</p>")
	require.Len(t, []rune(long), 200)
}
