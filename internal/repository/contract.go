package repository

import (
	"context"
	"errors"

	"bazaar/internal/models"

	"gorm.io/gorm"
)

// ContractRepository defines persistence operations for contracts.
type ContractRepository interface {
	Create(ctx context.Context, contract *models.Contract) error
	GetByID(ctx context.Context, id uint) (*models.Contract, error)
	GetByReference(ctx context.Context, reference string) (*models.Contract, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Contract, error)
	Update(ctx context.Context, contract *models.Contract) error
}

type contractRepository struct {
	db *gorm.DB
}

// NewContractRepository returns a new ContractRepository implementation.
func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	var contract models.Contract
	if err := r.db.WithContext(ctx).Preload("Offer").First(&contract, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Contract", id)
		}
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) GetByReference(ctx context.Context, reference string) (*models.Contract, error) {
	var contract models.Contract
	err := r.db.WithContext(ctx).Preload("Offer").Where("reference = ?", reference).First(&contract).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Contract", reference)
		}
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Contract, error) {
	var contracts []*models.Contract
	err := r.db.WithContext(ctx).
		Preload("Offer").
		Where("client_id = ? OR provider_id = ?", userID, userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepository) Update(ctx context.Context, contract *models.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}
