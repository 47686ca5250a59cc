package repository

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// OfferRepository defines persistence operations for service offers.
type OfferRepository interface {
	Create(ctx context.Context, offer *models.Offer) error
	GetByID(ctx context.Context, id uint) (*models.Offer, error)
	List(ctx context.Context, category string, limit, offset int) ([]*models.Offer, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Offer, error)
	Update(ctx context.Context, offer *models.Offer) error
	Delete(ctx context.Context, id uint) error
}

type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository returns a new OfferRepository implementation.
func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *offerRepository) GetByID(ctx context.Context, id uint) (*models.Offer, error) {
	var offer models.Offer
	if err := r.db.WithContext(ctx).Preload("User").First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Offer", id)
		}
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) List(ctx context.Context, category string, limit, offset int) ([]*models.Offer, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.OfferStatusActive).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var offers []*models.Offer
	err := q.Find(&offers).Error
	return offers, err
}

func (r *offerRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Offer, error) {
	var offers []*models.Offer
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&offers).Error
	return offers, err
}

func (r *offerRepository) Update(ctx context.Context, offer *models.Offer) error {
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *offerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Offer{}, id).Error
}
