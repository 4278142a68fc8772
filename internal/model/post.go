package model

import "time"

// Post types. Bot posts live on a shorter retention window than user posts.
const (
	PostTypeUser = "user"
	PostTypeBot  = "bot"
)

// Post is immutable after creation; it disappears from every read path the
// moment its retention window elapses and is physically removed by the
// sweeper shortly after.
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"type:varchar(36);index:idx_post_author;not null" json:"user_id"`
	ParentID  *string   `gorm:"type:varchar(36);index:idx_post_parent" json:"parent_id,omitempty"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	PostType  string    `gorm:"type:varchar(16);index:idx_post_type;not null;default:user" json:"post_type"`
	SourceURL string    `gorm:"type:varchar(500)" json:"source_url,omitempty"`
	CreatedAt time.Time `gorm:"index:idx_post_created;not null" json:"created_at"`
}

func (Post) TableName() string { return "posts" }

// IsReply reports whether the post is a threaded reply.
func (p *Post) IsReply() bool { return p.ParentID != nil }
