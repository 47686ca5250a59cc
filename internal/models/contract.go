package models

import (
	"time"
)

// Contract statuses.
const (
	ContractStatusPending   = "pending"
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
	ContractStatusCancelled = "cancelled"
)

// Contract is the formal agreement produced by an accepted negotiation.
// Reference is a human-shareable UUID identifying the contract outside
// the system (invoices, support tickets).
type Contract struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Reference     string    `gorm:"type:varchar(36);unique;not null" json:"reference"`
	OfferID       uint      `gorm:"not null;index" json:"offer_id"`
	NegotiationID uint      `gorm:"not null;uniqueIndex" json:"negotiation_id"`
	ClientID      uint      `gorm:"not null;index" json:"client_id"`
	ProviderID    uint      `gorm:"not null;index" json:"provider_id"`
	Price         int64     `gorm:"not null" json:"price"`
	Status        string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Offer Offer `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
}
