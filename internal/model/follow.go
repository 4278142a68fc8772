package model

import "time"

// Follow is the directed edge "follower follows followee".
type Follow struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID string `gorm:"type:varchar(36);index:idx_follow_follower;index:idx_follow_pair,unique;not null"`
	FolloweeID string `gorm:"type:varchar(36);index:idx_follow_followee;index:idx_follow_pair,unique;not null"`
	// idx_follow_pair = (follower_id, followee_id), keeps the edge unique
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
