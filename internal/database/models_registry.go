package database

import "bazaar/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Publication{},
		&models.Comment{},
		&models.Like{},
		&models.Offer{},
		&models.Negotiation{},
		&models.NegotiationMessage{},
		&models.Contract{},
	}
}
