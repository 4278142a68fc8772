package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/maxmsylvain/Vanish/internal/repository"
)

// RelationStats summarizes the follow edges around a user as seen by the
// requesting viewer.
type RelationStats struct {
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	IsFollowing    bool  `json:"is_following"`
}

type RelationshipService interface {
	Follow(ctx context.Context, fromUserID, toUsername string) error
	Unfollow(ctx context.Context, fromUserID, toUsername string) error
	Stats(ctx context.Context, username, viewerID string) (*RelationStats, error)
}

type relationshipService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

func NewRelationshipService(follows repository.FollowRepository, users repository.UserRepository) RelationshipService {
	return &relationshipService{follows: follows, users: users}
}

func (s *relationshipService) resolve(ctx context.Context, username string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	return user.ID, nil
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUsername string) error {
	toUserID, err := s.resolve(ctx, toUsername)
	if err != nil {
		return err
	}
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	return s.follows.Create(ctx, fromUserID, toUserID)
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUsername string) error {
	toUserID, err := s.resolve(ctx, toUsername)
	if err != nil {
		return err
	}
	if fromUserID == toUserID {
		return ErrFollowSelf
	}
	return s.follows.Delete(ctx, fromUserID, toUserID)
}

func (s *relationshipService) Stats(ctx context.Context, username, viewerID string) (*RelationStats, error) {
	userID, err := s.resolve(ctx, username)
	if err != nil {
		return nil, err
	}
	followers, err := s.follows.CountFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	following, err := s.follows.CountFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &RelationStats{FollowersCount: followers, FollowingCount: following}
	if viewerID != "" && viewerID != userID {
		stats.IsFollowing, err = s.follows.Exists(ctx, viewerID, userID)
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}
