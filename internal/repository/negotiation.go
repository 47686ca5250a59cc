package repository

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// NegotiationRepository defines persistence operations for negotiation
// threads and their messages.
type NegotiationRepository interface {
	Create(ctx context.Context, n *models.Negotiation) error
	GetByID(ctx context.Context, id uint) (*models.Negotiation, error)
	FindOpen(ctx context.Context, offerID, clientID uint) (*models.Negotiation, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Negotiation, error)
	Update(ctx context.Context, n *models.Negotiation) error
	AddMessage(ctx context.Context, msg *models.NegotiationMessage) error
	ListMessages(ctx context.Context, negotiationID uint, limit, offset int) ([]*models.NegotiationMessage, error)
}

type negotiationRepository struct {
	db *gorm.DB
}

// NewNegotiationRepository returns a new NegotiationRepository implementation.
func NewNegotiationRepository(db *gorm.DB) NegotiationRepository {
	return &negotiationRepository{db: db}
}

func (r *negotiationRepository) Create(ctx context.Context, n *models.Negotiation) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *negotiationRepository) GetByID(ctx context.Context, id uint) (*models.Negotiation, error) {
	var n models.Negotiation
	if err := r.db.WithContext(ctx).Preload("Offer").First(&n, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Negotiation", id)
		}
		return nil, err
	}
	return &n, nil
}

// FindOpen returns the open negotiation between clientID and the provider of
// offerID, or (nil, nil) if none exists.
func (r *negotiationRepository) FindOpen(ctx context.Context, offerID, clientID uint) (*models.Negotiation, error) {
	var n models.Negotiation
	err := r.db.WithContext(ctx).
		Where("offer_id = ? AND client_id = ? AND status = ?", offerID, clientID, models.NegotiationStatusOpen).
		First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *negotiationRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Negotiation, error) {
	var negotiations []*models.Negotiation
	err := r.db.WithContext(ctx).
		Preload("Offer").
		Where("client_id = ? OR provider_id = ?", userID, userID).
		Order("updated_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&negotiations).Error
	return negotiations, err
}

func (r *negotiationRepository) Update(ctx context.Context, n *models.Negotiation) error {
	return r.db.WithContext(ctx).Save(n).Error
}

func (r *negotiationRepository) AddMessage(ctx context.Context, msg *models.NegotiationMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

func (r *negotiationRepository) ListMessages(ctx context.Context, negotiationID uint, limit, offset int) ([]*models.NegotiationMessage, error) {
	var msgs []*models.NegotiationMessage
	err := r.db.WithContext(ctx).
		Preload("Sender").
		Where("negotiation_id = ?", negotiationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&msgs).Error
	return msgs, err
}
