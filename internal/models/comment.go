package models

import (
	"time"
)

// Comment statuses.
const (
	CommentStatusApproved = "approved"
	CommentStatusHidden   = "hidden"
	CommentStatusPending  = "pending"
)

// Comment is a threaded reply on a publication. ParentCommentID is nil for
// top-level comments; replies form a tree of arbitrary depth. LikeCount is
// denormalized and maintained by the engagement counter dispatcher.
//
// Comments are hard-deleted: cascade deletion must actually remove the
// subtree and its like rows, so there is no soft-delete column.
type Comment struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	PublicationID   uint      `gorm:"not null;index" json:"publication_id"`
	UserID          uint      `gorm:"not null" json:"user_id"`
	Content         string    `gorm:"not null" json:"content"`
	ParentCommentID *uint     `gorm:"index" json:"parent_comment_id,omitempty"`
	LikeCount       int64     `gorm:"not null;default:0" json:"like_count"`
	Status          string    `gorm:"type:varchar(20);not null;default:'approved'" json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
