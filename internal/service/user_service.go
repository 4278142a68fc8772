package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/maxmsylvain/Vanish/internal/model"
	"github.com/maxmsylvain/Vanish/internal/repository"
)

// Profile is a user together with their still-active posts.
type Profile struct {
	User  *model.User `json:"user"`
	Posts []*PostView `json:"posts"`
}

// SearchResult bundles the user and post matches for one query.
type SearchResult struct {
	Query string        `json:"query"`
	Users []*model.User `json:"users"`
	Posts []*PostView   `json:"posts"`
}

type UserService interface {
	Profile(ctx context.Context, username string) (*Profile, error)
	UpdateBio(ctx context.Context, userID, bio string) error
	Search(ctx context.Context, query string) (*SearchResult, error)
}

type userService struct {
	users     repository.UserRepository
	posts     repository.PostRepository
	window    time.Duration
	botWindow time.Duration
	now       func() time.Time
}

func NewUserService(users repository.UserRepository, posts repository.PostRepository, window, botWindow time.Duration) UserService {
	return &userService{
		users:     users,
		posts:     posts,
		window:    window,
		botWindow: botWindow,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *userService) windowFor(postType string) time.Duration {
	if postType == model.PostTypeBot {
		return s.botWindow
	}
	return s.window
}

func (s *userService) Profile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	posts, err := s.posts.ListActiveByAuthor(ctx, user.ID, s.now())
	if err != nil {
		return nil, err
	}
	views, err := buildViews(ctx, s.users, posts, s.now(), s.windowFor)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Posts: views}, nil
}

func (s *userService) UpdateBio(ctx context.Context, userID, bio string) error {
	if err := s.users.UpdateProfile(ctx, userID, bio, ""); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// Search matches usernames (up to 10) and active post content (up to 20).
func (s *userService) Search(ctx context.Context, query string) (*SearchResult, error) {
	res := &SearchResult{Query: query, Users: []*model.User{}, Posts: []*PostView{}}
	if query == "" {
		return res, nil
	}
	users, err := s.users.SearchByUsername(ctx, query, 10)
	if err != nil {
		return nil, err
	}
	res.Users = users

	posts, err := s.posts.SearchActive(ctx, query, s.now(), 20)
	if err != nil {
		return nil, err
	}
	views, err := buildViews(ctx, s.users, posts, s.now(), s.windowFor)
	if err != nil {
		return nil, err
	}
	res.Posts = views
	return res, nil
}
