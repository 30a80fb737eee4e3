package models

import (
	"time"
)

// Sub is a community. Name is the natural primary key, as in the URL.
type Sub struct {
	Name        string    `gorm:"primaryKey;size:30" json:"name"`
	Description string    `gorm:"not null" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	Subscribers []User `gorm:"many2many:sub_subscribers" json:"-"`
	Moderators  []User `gorm:"many2many:sub_moderators" json:"-"`
}
