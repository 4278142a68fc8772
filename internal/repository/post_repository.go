package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maxmsylvain/Vanish/internal/model"
)

// PostRepository persists posts. Every read takes the caller's notion of
// "now" so visibility is decided by a query-time cutoff, not by trusting
// the sweeper to have run already.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	ListActive(ctx context.Context, now time.Time, limit int) ([]*model.Post, error)
	ListFollowedActive(ctx context.Context, viewerID string, now time.Time, limit int) ([]*model.Post, error)
	ListActiveByAuthor(ctx context.Context, userID string, now time.Time) ([]*model.Post, error)
	ListActiveReplies(ctx context.Context, parentID string, now time.Time) ([]*model.Post, error)
	SearchActive(ctx context.Context, query string, now time.Time, limit int) ([]*model.Post, error)
	CountRecentByAuthor(ctx context.Context, userID, postType string, since time.Time) (int64, error)
	OldestRecentByAuthor(ctx context.Context, userID, postType string, since time.Time) (*model.Post, error)
	ExistsSimilar(ctx context.Context, userID, contentFragment string, since time.Time) (bool, error)
}

type postRepository struct {
	db        *gorm.DB
	window    time.Duration
	botWindow time.Duration
}

func NewPostRepository(db *gorm.DB, window, botWindow time.Duration) PostRepository {
	return &postRepository{db: db, window: window, botWindow: botWindow}
}

// activeScope keeps only posts still inside their retention window at now.
func (r *postRepository) activeScope(now time.Time) func(*gorm.DB) *gorm.DB {
	userCutoff := now.Add(-r.window)
	botCutoff := now.Add(-r.botWindow)
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(post_type = ? AND created_at > ?) OR (post_type = ? AND created_at > ?)",
			model.PostTypeUser, userCutoff, model.PostTypeBot, botCutoff,
		)
	}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	if post.PostType == "" {
		post.PostType = model.PostTypeUser
	}
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post and its direct replies in one transaction.
func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Post{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Delete(&model.Post{}, "parent_id = ?", id).Error
	})
}

// DeleteExpired removes every post past its cutoff at now, cascading to
// replies of removed posts. Idempotent: a second call with the same clock
// removes zero rows. Returns the number of rows removed.
func (r *postRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	userCutoff := now.Add(-r.window)
	botCutoff := now.Add(-r.botWindow)
	expired := "(post_type = ? AND created_at <= ?) OR (post_type = ? AND created_at <= ?)"

	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replies of expired parents go with them, even if younger.
		res := tx.Where("parent_id IN (?)",
			tx.Session(&gorm.Session{NewDB: true}).Model(&model.Post{}).Select("id").
				Where(expired, model.PostTypeUser, userCutoff, model.PostTypeBot, botCutoff),
		).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected

		res = tx.Where(expired, model.PostTypeUser, userCutoff, model.PostTypeBot, botCutoff).
			Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		removed += res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

func (r *postRepository) ListActive(ctx context.Context, now time.Time, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	q := r.db.WithContext(ctx).Scopes(r.activeScope(now)).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&posts).Error
	return posts, err
}

// ListFollowedActive returns active posts authored by users the viewer
// follows, plus the viewer's own.
func (r *postRepository) ListFollowedActive(ctx context.Context, viewerID string, now time.Time, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	followees := r.db.Session(&gorm.Session{NewDB: true}).Model(&model.Follow{}).
		Select("followee_id").Where("follower_id = ?", viewerID)
	q := r.db.WithContext(ctx).Scopes(r.activeScope(now)).
		Where("user_id = ? OR user_id IN (?)", viewerID, followees).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListActiveByAuthor(ctx context.Context, userID string, now time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).Scopes(r.activeScope(now)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// ListActiveReplies returns active replies oldest-first, the order a thread
// reads in.
func (r *postRepository) ListActiveReplies(ctx context.Context, parentID string, now time.Time) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).Scopes(r.activeScope(now)).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) SearchActive(ctx context.Context, query string, now time.Time, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	err := r.db.WithContext(ctx).Scopes(r.activeScope(now)).
		Where("content LIKE ?", "%"+query+"%").
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) CountRecentByAuthor(ctx context.Context, userID, postType string, since time.Time) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("user_id = ? AND post_type = ? AND created_at > ?", userID, postType, since).
		Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) OldestRecentByAuthor(ctx context.Context, userID, postType string, since time.Time) (*model.Post, error) {
	var post model.Post
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_type = ? AND created_at > ?", userID, postType, since).
		Order("created_at ASC").
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ExistsSimilar(ctx context.Context, userID, contentFragment string, since time.Time) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("user_id = ? AND created_at > ? AND content LIKE ?", userID, since, "%"+contentFragment+"%").
		Count(&cnt).Error
	return cnt > 0, err
}
