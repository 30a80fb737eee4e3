package models

import (
	"time"
)

type Post struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	Pid    string `gorm:"uniqueIndex;size:8;not null" json:"id"` // public id used in URLs
	UserID uint   `gorm:"not null;index" json:"-"`
	User   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"creator"`
	Title  string `gorm:"not null" json:"title"`
	// Exactly one of Text/Image is set. Text is raw markdown, Image is
	// an object-storage key.
	Text      *string   `gorm:"type:text" json:"text,omitempty"`
	Image     *string   `json:"image,omitempty"`
	Points    int       `gorm:"not null;default:0" json:"points"` // maintained aggregate, == SUM(votes.value)
	NSFW      bool      `gorm:"not null;default:false" json:"nsfw"`
	SubName   string    `gorm:"not null;index" json:"sub_name"`
	Sub       Sub       `gorm:"foreignKey:SubName;references:Name;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Filled per query, not stored.
	CommentCount int `gorm:"-" json:"comment_count"`
	CallerVote   int `gorm:"-" json:"caller_vote"` // -1, 0 or +1 for the requesting user
}
