package models

import (
	"time"
)

// PasswordReset is a single-use token mailed to the user.
type PasswordReset struct {
	Token     string    `gorm:"primaryKey;size:36" json:"-"`
	UserID    uint      `gorm:"not null;index" json:"-"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ExpiresAt time.Time `gorm:"not null" json:"-"`
	CreatedAt time.Time `json:"-"`
}
