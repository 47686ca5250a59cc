package models

import (
	"time"

	"gorm.io/gorm"
)

// Offer statuses.
const (
	OfferStatusActive   = "active"
	OfferStatusPaused   = "paused"
	OfferStatusArchived = "archived"
)

// Offer is a service offer published by a provider. Price is stored in cents.
type Offer struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UserID      uint           `gorm:"not null;index" json:"user_id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"not null" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Price       int64          `gorm:"not null" json:"price"`
	Status      string         `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
