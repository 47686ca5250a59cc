package service

import (
	"context"

	"bazaar/internal/models"
	"bazaar/internal/repository"
)

type OfferService struct {
	offerRepo repository.OfferRepository
	isAdmin   func(ctx context.Context, userID uint) (bool, error)
}

type CreateOfferInput struct {
	UserID      uint
	Title       string
	Description string
	Category    string
	Price       int64
}

type UpdateOfferInput struct {
	UserID      uint
	OfferID     uint
	Title       string
	Description string
	Category    string
	Price       *int64
	Status      string
}

func NewOfferService(
	offerRepo repository.OfferRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *OfferService {
	return &OfferService{offerRepo: offerRepo, isAdmin: isAdmin}
}

func (s *OfferService) CreateOffer(ctx context.Context, in CreateOfferInput) (*models.Offer, error) {
	const maxTitleLen = 200
	const maxDescriptionLen = 20000

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if in.Description == "" {
		return nil, models.NewValidationError("Description is required")
	}
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError("Description too long (max 20000 characters)")
	}
	if in.Price <= 0 {
		return nil, models.NewValidationError("Price must be positive")
	}

	offer := &models.Offer{
		UserID:      in.UserID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Price:       in.Price,
		Status:      models.OfferStatusActive,
	}
	if err := s.offerRepo.Create(ctx, offer); err != nil {
		return nil, err
	}

	return s.offerRepo.GetByID(ctx, offer.ID)
}

func (s *OfferService) GetOffer(ctx context.Context, id uint) (*models.Offer, error) {
	return s.offerRepo.GetByID(ctx, id)
}

func (s *OfferService) ListOffers(ctx context.Context, category string, limit, offset int) ([]*models.Offer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.offerRepo.List(ctx, category, limit, offset)
}

func (s *OfferService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Offer, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.offerRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *OfferService) UpdateOffer(ctx context.Context, in UpdateOfferInput) (*models.Offer, error) {
	offer, err := s.offerRepo.GetByID(ctx, in.OfferID)
	if err != nil {
		return nil, err
	}

	if offer.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own offers")
	}
	if offer.Status == models.OfferStatusArchived {
		return nil, models.NewValidationError("Archived offers cannot be updated")
	}

	if in.Title != "" {
		offer.Title = in.Title
	}
	if in.Description != "" {
		offer.Description = in.Description
	}
	if in.Category != "" {
		offer.Category = in.Category
	}
	if in.Price != nil {
		if *in.Price <= 0 {
			return nil, models.NewValidationError("Price must be positive")
		}
		offer.Price = *in.Price
	}
	if in.Status != "" {
		switch in.Status {
		case models.OfferStatusActive, models.OfferStatusPaused, models.OfferStatusArchived:
			offer.Status = in.Status
		default:
			return nil, models.NewValidationError("Unknown offer status")
		}
	}

	if err := s.offerRepo.Update(ctx, offer); err != nil {
		return nil, err
	}

	return s.offerRepo.GetByID(ctx, offer.ID)
}

func (s *OfferService) DeleteOffer(ctx context.Context, userID, offerID uint) error {
	offer, err := s.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return err
	}

	if offer.UserID != userID {
		if s.isAdmin == nil {
			return models.NewUnauthorizedError("You can only delete your own offers")
		}
		admin, err := s.isAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own offers")
		}
	}

	return s.offerRepo.Delete(ctx, offerID)
}
