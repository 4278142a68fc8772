package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"

	"github.com/maxmsylvain/Vanish/config"
	"github.com/maxmsylvain/Vanish/internal/model"
	"github.com/maxmsylvain/Vanish/internal/repository"
	"github.com/maxmsylvain/Vanish/pkg/logger"
)

// botProfiles maps a source category to the bot account that posts it.
var botProfiles = map[string]model.User{
	"general": {
		Username:   "news_bot",
		Email:      "news_bot@vanish.com",
		Bio:        "General News Bot - the latest headlines from around the world",
		ProfilePic: "images/profile_pics/news_bot.png",
	},
	"financial": {
		Username:   "finance_bot",
		Email:      "finance_bot@vanish.com",
		Bio:        "Finance Bot - market updates, business news, and economic insights",
		ProfilePic: "images/profile_pics/finance_bot.png",
	},
	"political": {
		Username:   "politics_bot",
		Email:      "politics_bot@vanish.com",
		Bio:        "Politics Bot - political news, policy updates, and government insights",
		ProfilePic: "images/profile_pics/politics_bot.png",
	},
}

var categoryEmoji = map[string]string{
	"general":   "\U0001F4F0",
	"financial": "\U0001F4B0",
	"political": "\U0001F3DB️",
}

const (
	maxEntryAge    = 3 * 24 * time.Hour
	summaryMax     = 200
	dedupeWindow   = time.Hour
	dedupeTitleCap = 50
)

// NewsBotWorker periodically posts a headline from a random configured RSS
// source under the matching bot account. Bot posts carry the short bot
// retention window, each bot keeps at most cfg.MaxLive posts alive, and a
// headline already posted within the last hour is skipped.
type NewsBotWorker struct {
	users     repository.UserRepository
	posts     repository.PostRepository
	cfg       config.BotsConfig
	botWindow time.Duration
	parser    *gofeed.Parser
	rng       *rand.Rand
	bots      map[string]*model.User // category -> bot account
}

func NewNewsBotWorker(users repository.UserRepository, posts repository.PostRepository, cfg config.BotsConfig, botWindow time.Duration) *NewsBotWorker {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.MaxLive <= 0 {
		cfg.MaxLive = 5
	}
	return &NewsBotWorker{
		users:     users,
		posts:     posts,
		cfg:       cfg,
		botWindow: botWindow,
		parser:    gofeed.NewParser(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		bots:      make(map[string]*model.User),
	}
}

// EnsureBots creates the bot accounts for every configured category.
// Idempotent across restarts.
func (w *NewsBotWorker) EnsureBots(ctx context.Context) error {
	for _, src := range w.cfg.Sources {
		profile, ok := botProfiles[src.Category]
		if !ok {
			logger.Warn("unknown bot category, skipping", zap.String("category", src.Category))
			continue
		}
		if _, done := w.bots[src.Category]; done {
			continue
		}
		bot := profile
		if err := w.users.FirstOrCreate(ctx, &bot); err != nil {
			return fmt.Errorf("ensure bot %s: %w", profile.Username, err)
		}
		w.bots[src.Category] = &bot
	}
	return nil
}

// Start launches the posting loop and returns a stop function.
func (w *NewsBotWorker) Start() func(context.Context) error {
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				w.tick()
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

func (w *NewsBotWorker) tick() {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("news bot panicked", zap.Any("panic", r))
		}
	}()

	if len(w.cfg.Sources) == 0 || len(w.bots) == 0 {
		return
	}
	src := w.cfg.Sources[w.rng.Intn(len(w.cfg.Sources))]
	bot, ok := w.bots[src.Category]
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if err := w.postFrom(ctx, src, bot); err != nil {
		logger.Warn("news bot tick failed",
			zap.String("source", src.Name), zap.Error(err))
	}
}

func (w *NewsBotWorker) postFrom(ctx context.Context, src config.BotSource, bot *model.User) error {
	feed, err := w.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	cutoff := now.Add(-maxEntryAge)
	limit := len(feed.Items)
	if limit > 30 {
		limit = 30
	}
	recent := make([]*gofeed.Item, 0, limit)
	for _, item := range feed.Items[:limit] {
		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}
		if published != nil && published.After(cutoff) {
			recent = append(recent, item)
		}
	}
	if len(recent) == 0 {
		return nil
	}
	item := recent[w.rng.Intn(len(recent))]
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return nil
	}

	// skip headlines this bot already posted recently
	frag := title
	if r := []rune(frag); len(r) > dedupeTitleCap {
		frag = string(r[:dedupeTitleCap])
	}
	if dup, err := w.posts.ExistsSimilar(ctx, bot.ID, frag, now.Add(-dedupeWindow)); err != nil {
		return err
	} else if dup {
		return nil
	}

	if err := w.evictOverCap(ctx, bot, now); err != nil {
		return err
	}

	content := categoryEmoji[src.Category] + " " + title
	if summary := plainText(item.Description); summary != "" {
		content += "\n\n" + summary
	}
	content += "\n\nSource: " + src.Name

	post := &model.Post{
		UserID:    bot.ID,
		Content:   content,
		PostType:  model.PostTypeBot,
		SourceURL: item.Link,
		CreatedAt: now,
	}
	if err := w.posts.Create(ctx, post); err != nil {
		return err
	}
	logger.Info("news bot posted",
		zap.String("bot", bot.Username), zap.String("source", src.Name))
	return nil
}

// evictOverCap removes the bot's oldest live post once it hits MaxLive.
func (w *NewsBotWorker) evictOverCap(ctx context.Context, bot *model.User, now time.Time) error {
	since := now.Add(-w.botWindow)
	cnt, err := w.posts.CountRecentByAuthor(ctx, bot.ID, model.PostTypeBot, since)
	if err != nil {
		return err
	}
	if cnt < int64(w.cfg.MaxLive) {
		return nil
	}
	oldest, err := w.posts.OldestRecentByAuthor(ctx, bot.ID, model.PostTypeBot, since)
	if err != nil {
		return err
	}
	return w.posts.Delete(ctx, oldest.ID)
}

// plainText strips markup from a feed summary and truncates it.
func plainText(html string) string {
	if html == "" {
		return ""
	}
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.TrimSpace(text)
	if r := []rune(text); len(r) > summaryMax {
		text = string(r[:summaryMax])
	}
	return text
}
