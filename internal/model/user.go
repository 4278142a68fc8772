package model

import "time"

// User account. Password holds the bcrypt hash, never the plaintext.
type User struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Username   string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"type:varchar(200);not null" json:"-"`
	Bio        string    `gorm:"type:varchar(500)" json:"bio"`
	ProfilePic string    `gorm:"type:varchar(200);default:default.jpg" json:"profile_pic"`
	CreatedAt  time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
