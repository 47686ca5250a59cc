package repository

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// PublicationRepository defines persistence operations for feed items.
// LikeCount and CommentCount are never written here; only the engagement
// dispatcher mutates them.
type PublicationRepository interface {
	Create(ctx context.Context, pub *models.Publication) error
	GetByID(ctx context.Context, id uint) (*models.Publication, error)
	List(ctx context.Context, pubType string, limit, offset int) ([]*models.Publication, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Publication, error)
	Update(ctx context.Context, pub *models.Publication) error
	Delete(ctx context.Context, id uint) error
}

type publicationRepository struct {
	db *gorm.DB
}

// NewPublicationRepository returns a new PublicationRepository implementation.
func NewPublicationRepository(db *gorm.DB) PublicationRepository {
	return &publicationRepository{db: db}
}

func (r *publicationRepository) Create(ctx context.Context, pub *models.Publication) error {
	return r.db.WithContext(ctx).Create(pub).Error
}

func (r *publicationRepository) GetByID(ctx context.Context, id uint) (*models.Publication, error) {
	var pub models.Publication
	if err := r.db.WithContext(ctx).Preload("User").First(&pub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Publication", id)
		}
		return nil, err
	}
	return &pub, nil
}

func (r *publicationRepository) List(ctx context.Context, pubType string, limit, offset int) ([]*models.Publication, error) {
	q := r.db.WithContext(ctx).
		Preload("User").
		Where("status = ?", models.PublicationStatusApproved).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset)
	if pubType != "" {
		q = q.Where("type = ?", pubType)
	}
	var pubs []*models.Publication
	err := q.Find(&pubs).Error
	return pubs, err
}

func (r *publicationRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Publication, error) {
	var pubs []*models.Publication
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pubs).Error
	return pubs, err
}

func (r *publicationRepository) Update(ctx context.Context, pub *models.Publication) error {
	return r.db.WithContext(ctx).Save(pub).Error
}

func (r *publicationRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Publication{}, id).Error
}
