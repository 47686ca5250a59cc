package service

import (
	"context"
	"time"

	"bazaar/internal/cache"
	"bazaar/internal/models"
	"bazaar/internal/repository"
)

type PublicationService struct {
	pubRepo repository.PublicationRepository
	isAdmin func(ctx context.Context, userID uint) (bool, error)
}

type CreatePublicationInput struct {
	UserID    uint
	Type      string
	Title     string
	Content   string
	EventDate *time.Time
}

type UpdatePublicationInput struct {
	UserID        uint
	PublicationID uint
	Title         string
	Content       string
	EventDate     *time.Time
}

type ModeratePublicationInput struct {
	UserID        uint
	PublicationID uint
	Status        string
}

type ListFeedInput struct {
	Type   string
	Limit  int
	Offset int
}

func NewPublicationService(
	pubRepo repository.PublicationRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *PublicationService {
	return &PublicationService{pubRepo: pubRepo, isAdmin: isAdmin}
}

func (s *PublicationService) CreatePublication(ctx context.Context, in CreatePublicationInput) (*models.Publication, error) {
	const maxTitleLen = 200
	const maxContentLen = 20000

	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 200 characters)")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 20000 characters)")
	}

	pubType := in.Type
	if pubType == "" {
		pubType = models.PublicationTypePost
	}
	switch pubType {
	case models.PublicationTypePost:
		if in.EventDate != nil {
			return nil, models.NewValidationError("Posts cannot carry an event date")
		}
	case models.PublicationTypeEvent:
		if in.EventDate == nil {
			return nil, models.NewValidationError("Events require an event date")
		}
	default:
		return nil, models.NewValidationError("Unknown publication type")
	}

	pub := &models.Publication{
		UserID:    in.UserID,
		Type:      pubType,
		Title:     in.Title,
		Content:   in.Content,
		EventDate: in.EventDate,
		Status:    models.PublicationStatusApproved,
	}
	if err := s.pubRepo.Create(ctx, pub); err != nil {
		return nil, err
	}

	cache.InvalidateFeed(ctx)
	return s.pubRepo.GetByID(ctx, pub.ID)
}

func (s *PublicationService) GetPublication(ctx context.Context, id uint) (*models.Publication, error) {
	return s.pubRepo.GetByID(ctx, id)
}

// ListFeed returns one page of the community feed, newest first, through the
// cache-aside layer. Counter values in a cached page may lag writes by up to
// the feed TTL.
func (s *PublicationService) ListFeed(ctx context.Context, in ListFeedInput) ([]*models.Publication, error) {
	limit := in.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}
	if in.Type != "" && in.Type != models.PublicationTypePost && in.Type != models.PublicationTypeEvent {
		return nil, models.NewValidationError("Unknown publication type")
	}

	var pubs []*models.Publication
	err := cache.CacheAside(ctx, cache.FeedKey(in.Type, limit, offset), &pubs, cache.FeedTTL, func() error {
		var fetchErr error
		pubs, fetchErr = s.pubRepo.List(ctx, in.Type, limit, offset)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return pubs, nil
}

func (s *PublicationService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Publication, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.pubRepo.ListByUser(ctx, userID, limit, offset)
}

func (s *PublicationService) UpdatePublication(ctx context.Context, in UpdatePublicationInput) (*models.Publication, error) {
	pub, err := s.pubRepo.GetByID(ctx, in.PublicationID)
	if err != nil {
		return nil, err
	}

	if pub.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own publications")
	}
	if in.Title != "" {
		pub.Title = in.Title
	}
	if in.Content != "" {
		pub.Content = in.Content
	}
	if in.EventDate != nil {
		if pub.Type != models.PublicationTypeEvent {
			return nil, models.NewValidationError("Posts cannot carry an event date")
		}
		pub.EventDate = in.EventDate
	}

	if err := s.pubRepo.Update(ctx, pub); err != nil {
		return nil, err
	}

	cache.InvalidateFeed(ctx)
	return s.pubRepo.GetByID(ctx, pub.ID)
}

// ModeratePublication sets a publication's visibility status. Admin only.
func (s *PublicationService) ModeratePublication(ctx context.Context, in ModeratePublicationInput) (*models.Publication, error) {
	switch in.Status {
	case models.PublicationStatusApproved, models.PublicationStatusHidden, models.PublicationStatusPending:
	default:
		return nil, models.NewValidationError("Unknown publication status")
	}

	admin, err := s.requireAdmin(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !admin {
		return nil, models.NewUnauthorizedError("Only admins can moderate publications")
	}

	pub, err := s.pubRepo.GetByID(ctx, in.PublicationID)
	if err != nil {
		return nil, err
	}
	pub.Status = in.Status
	if err := s.pubRepo.Update(ctx, pub); err != nil {
		return nil, err
	}

	cache.InvalidateFeed(ctx)
	return pub, nil
}

func (s *PublicationService) DeletePublication(ctx context.Context, userID, publicationID uint) error {
	pub, err := s.pubRepo.GetByID(ctx, publicationID)
	if err != nil {
		return err
	}

	if pub.UserID != userID {
		admin, err := s.requireAdmin(ctx, userID)
		if err != nil {
			return err
		}
		if !admin {
			return models.NewUnauthorizedError("You can only delete your own publications")
		}
	}

	if err := s.pubRepo.Delete(ctx, publicationID); err != nil {
		return err
	}

	cache.InvalidateFeed(ctx)
	return nil
}

func (s *PublicationService) requireAdmin(ctx context.Context, userID uint) (bool, error) {
	if s.isAdmin == nil {
		return false, nil
	}
	return s.isAdmin(ctx, userID)
}
