package models

import (
	"time"
)

// Negotiation statuses.
const (
	NegotiationStatusOpen     = "open"
	NegotiationStatusAccepted = "accepted"
	NegotiationStatusDeclined = "declined"
)

// Negotiation is a private thread between a client and the provider of an
// offer. Accepting a negotiation produces a Contract.
type Negotiation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	OfferID    uint      `gorm:"not null;index" json:"offer_id"`
	ClientID   uint      `gorm:"not null;index" json:"client_id"`
	ProviderID uint      `gorm:"not null;index" json:"provider_id"`
	Status     string    `gorm:"type:varchar(20);not null;default:'open'" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Offer    Offer                `gorm:"foreignKey:OfferID" json:"offer,omitempty"`
	Messages []NegotiationMessage `gorm:"foreignKey:NegotiationID" json:"messages,omitempty"`
}

// NegotiationMessage is one message inside a negotiation thread.
type NegotiationMessage struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	NegotiationID uint      `gorm:"not null;index" json:"negotiation_id"`
	SenderID      uint      `gorm:"not null" json:"sender_id"`
	Body          string    `gorm:"not null" json:"body"`
	CreatedAt     time.Time `json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}
