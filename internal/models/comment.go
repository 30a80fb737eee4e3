package models

import (
	"time"
)

type Comment struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	Cid    string `gorm:"uniqueIndex;size:8;not null" json:"id"` // public id used in URLs
	PostID uint   `gorm:"not null;index" json:"-"`
	Post   Post   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	UserID uint   `gorm:"not null;index" json:"-"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"user"`
	// Nil for top-level comments. PostID is denormalized onto every node
	// so a post's whole forest loads in one query.
	ParentID  *uint     `gorm:"index" json:"-"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Edited    bool      `gorm:"not null;default:false" json:"edited"` // set once, never cleared
	CreatedAt time.Time `json:"created_at"`
}
