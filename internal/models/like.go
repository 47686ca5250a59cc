package models

import (
	"time"
)

// TargetType identifies the kind of entity a like points at. It is a closed
// set: adding a new likeable type means adding a constant here and
// registering a counter target with the engagement dispatcher.
type TargetType string

// Likeable target types.
const (
	TargetPublication TargetType = "publication"
	TargetComment     TargetType = "comment"
)

// Valid reports whether t is a known target type.
func (t TargetType) Valid() bool {
	switch t {
	case TargetPublication, TargetComment:
		return true
	}
	return false
}

// Like represents a user's endorsement of one target (publication or comment).
// The combination of UserID, TargetID and TargetType must be unique.
// Likes are hard-deleted: a purged like must not block a later re-like
// through the unique index, so there is no soft-delete column.
type Like struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_user_target" json:"target_id"`
	TargetType TargetType `gorm:"type:varchar(20);not null;uniqueIndex:idx_user_target" json:"target_type"`
	CreatedAt  time.Time  `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
