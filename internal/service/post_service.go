package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/maxmsylvain/Vanish/internal/cache"
	"github.com/maxmsylvain/Vanish/internal/model"
	"github.com/maxmsylvain/Vanish/internal/repository"
)

// Feed types accepted by ListFeed.
const (
	FeedAll      = "all"
	FeedFollowed = "followed"
)

// PostView is a post decorated with its author and the seconds left before
// it vanishes. RemainingSeconds is computed at read time, never stored.
type PostView struct {
	ID               string    `json:"id"`
	Content          string    `json:"content"`
	UserID           string    `json:"user_id"`
	Username         string    `json:"username"`
	ProfilePic       string    `json:"profile_pic"`
	ParentID         *string   `json:"parent_id,omitempty"`
	PostType         string    `json:"post_type"`
	SourceURL        string    `json:"source_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	RemainingSeconds float64   `json:"remaining_seconds"`
}

type PostService interface {
	Create(ctx context.Context, userID, content string, parentID *string) (*PostView, error)
	ListFeed(ctx context.Context, viewerID, feedType string) ([]*PostView, error)
	ListReplies(ctx context.Context, postID string) ([]*PostView, error)
	Remaining(ctx context.Context, postID string) (float64, error)
	Delete(ctx context.Context, viewerID, postID string) error
}

type postService struct {
	posts      repository.PostRepository
	users      repository.UserRepository
	feedCache  *cache.FeedCache
	window     time.Duration
	botWindow  time.Duration
	contentMax int
	now        func() time.Time
}

func NewPostService(posts repository.PostRepository, users repository.UserRepository, feedCache *cache.FeedCache, window, botWindow time.Duration, contentMax int) PostService {
	return &postService{
		posts:      posts,
		users:      users,
		feedCache:  feedCache,
		window:     window,
		botWindow:  botWindow,
		contentMax: contentMax,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *postService) windowFor(postType string) time.Duration {
	if postType == model.PostTypeBot {
		return s.botWindow
	}
	return s.window
}

func (s *postService) remaining(p *model.Post, now time.Time) float64 {
	left := p.CreatedAt.Add(s.windowFor(p.PostType)).Sub(now).Seconds()
	if left < 0 {
		return 0
	}
	return left
}

func (s *postService) Create(ctx context.Context, userID, content string, parentID *string) (*PostView, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(content) > s.contentMax {
		return nil, ErrContentTooLong
	}
	if parentID != nil {
		if _, err := s.posts.GetByID(ctx, *parentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, err
		}
	}
	post := &model.Post{
		UserID:    userID,
		ParentID:  parentID,
		Content:   content,
		PostType:  model.PostTypeUser,
		CreatedAt: s.now(),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	s.feedCache.Invalidate(ctx)
	views, err := s.decorate(ctx, []*model.Post{post})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func (s *postService) ListFeed(ctx context.Context, viewerID, feedType string) ([]*PostView, error) {
	now := s.now()

	if feedType == FeedFollowed {
		posts, err := s.posts.ListFollowedActive(ctx, viewerID, now, 0)
		if err != nil {
			return nil, err
		}
		return s.decorate(ctx, posts)
	}

	if posts, ok := s.feedCache.Get(ctx); ok {
		return s.decorate(ctx, posts)
	}
	posts, err := s.posts.ListActive(ctx, now, 0)
	if err != nil {
		return nil, err
	}
	s.feedCache.Set(ctx, posts)
	return s.decorate(ctx, posts)
}

func (s *postService) ListReplies(ctx context.Context, postID string) ([]*PostView, error) {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	posts, err := s.posts.ListActiveReplies(ctx, postID, s.now())
	if err != nil {
		return nil, err
	}
	return s.decorate(ctx, posts)
}

func (s *postService) Remaining(ctx context.Context, postID string) (float64, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return s.remaining(post, s.now()), nil
}

// Delete removes a post; only its author may do so.
func (s *postService) Delete(ctx context.Context, viewerID, postID string) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if post.UserID != viewerID {
		return ErrForbidden
	}
	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.feedCache.Invalidate(ctx)
	return nil
}

func (s *postService) decorate(ctx context.Context, posts []*model.Post) ([]*PostView, error) {
	return buildViews(ctx, s.users, posts, s.now(), s.windowFor)
}

// buildViews joins authors onto posts and computes remaining time. Posts
// whose window elapsed between storage read (or cache hit) and now are
// dropped: an expired post is never shown, no matter where it came from.
func buildViews(ctx context.Context, userRepo repository.UserRepository, posts []*model.Post, now time.Time, windowFor func(string) time.Duration) ([]*PostView, error) {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]struct{}, len(posts))
	for _, p := range posts {
		if _, ok := seen[p.UserID]; !ok {
			seen[p.UserID] = struct{}{}
			ids = append(ids, p.UserID)
		}
	}
	users, err := userRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		left := p.CreatedAt.Add(windowFor(p.PostType)).Sub(now).Seconds()
		if left <= 0 {
			continue
		}
		v := &PostView{
			ID:               p.ID,
			Content:          p.Content,
			UserID:           p.UserID,
			ParentID:         p.ParentID,
			PostType:         p.PostType,
			SourceURL:        p.SourceURL,
			CreatedAt:        p.CreatedAt,
			RemainingSeconds: left,
		}
		if u, ok := byID[p.UserID]; ok {
			v.Username = u.Username
			v.ProfilePic = u.ProfilePic
		}
		views = append(views, v)
	}
	return views, nil
}
