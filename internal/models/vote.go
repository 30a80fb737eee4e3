package models

import (
	"time"
)

// Vote is composite-keyed on (UserID, PostID): at most one row per user per
// post. The vote ledger depends on this constraint.
type Vote struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"` // +1 or -1
	CreatedAt time.Time `json:"created_at"`
}
