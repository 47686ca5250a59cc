package models

import (
	"time"

	"gorm.io/gorm"
)

// Publication types.
const (
	PublicationTypePost  = "post"
	PublicationTypeEvent = "event"
)

// Publication statuses.
const (
	PublicationStatusApproved = "approved"
	PublicationStatusHidden   = "hidden"
	PublicationStatusPending  = "pending"
)

// Publication is a community feed item: a plain post or an announced event.
// LikeCount and CommentCount are denormalized; they are written exclusively
// by the engagement counter dispatcher so they cannot drift through side
// channels. CommentCount includes every comment in every reply subtree.
type Publication struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	Type         string         `gorm:"type:varchar(20);not null;default:'post'" json:"type"`
	Title        string         `gorm:"not null" json:"title"`
	Content      string         `gorm:"not null" json:"content"`
	LikeCount    int64          `gorm:"not null;default:0" json:"like_count"`
	CommentCount int64          `gorm:"not null;default:0" json:"comment_count"`
	Status       string         `gorm:"type:varchar(20);not null;default:'approved'" json:"status"`
	EventDate    *time.Time     `json:"event_date,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`

	// Liked indicates whether the current requesting user liked this
	// publication (computed per request, not persisted).
	Liked bool `gorm:"-" json:"liked"`
}
