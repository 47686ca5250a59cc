package service

import (
	"context"

	"bazaar/internal/models"
	"bazaar/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NegotiationService runs private deal threads between a client and an
// offer's provider. Accepting a negotiation atomically closes the thread and
// issues the contract; the unique index on Contract.NegotiationID guarantees
// at most one contract per thread even under concurrent accepts.
type NegotiationService struct {
	db        *gorm.DB
	negRepo   repository.NegotiationRepository
	offerRepo repository.OfferRepository
}

type OpenNegotiationInput struct {
	ClientID uint
	OfferID  uint
	Message  string
}

type SendMessageInput struct {
	SenderID      uint
	NegotiationID uint
	Body          string
}

func NewNegotiationService(
	db *gorm.DB,
	negRepo repository.NegotiationRepository,
	offerRepo repository.OfferRepository,
) *NegotiationService {
	return &NegotiationService{db: db, negRepo: negRepo, offerRepo: offerRepo}
}

// OpenNegotiation starts (or resumes) a negotiation on an offer. A client
// already holding an open thread on the same offer gets that thread back
// instead of a duplicate.
func (s *NegotiationService) OpenNegotiation(ctx context.Context, in OpenNegotiationInput) (*models.Negotiation, error) {
	offer, err := s.offerRepo.GetByID(ctx, in.OfferID)
	if err != nil {
		return nil, err
	}
	if offer.UserID == in.ClientID {
		return nil, models.NewValidationError("You cannot negotiate on your own offer")
	}
	if offer.Status != models.OfferStatusActive {
		return nil, models.NewValidationError("Offer is not open for negotiation")
	}

	existing, err := s.negRepo.FindOpen(ctx, in.OfferID, in.ClientID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if in.Message != "" {
			if err := s.negRepo.AddMessage(ctx, &models.NegotiationMessage{
				NegotiationID: existing.ID,
				SenderID:      in.ClientID,
				Body:          in.Message,
			}); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}

	n := &models.Negotiation{
		OfferID:    in.OfferID,
		ClientID:   in.ClientID,
		ProviderID: offer.UserID,
		Status:     models.NegotiationStatusOpen,
	}
	if err := s.negRepo.Create(ctx, n); err != nil {
		return nil, err
	}
	if in.Message != "" {
		if err := s.negRepo.AddMessage(ctx, &models.NegotiationMessage{
			NegotiationID: n.ID,
			SenderID:      in.ClientID,
			Body:          in.Message,
		}); err != nil {
			return nil, err
		}
	}

	return s.negRepo.GetByID(ctx, n.ID)
}

func (s *NegotiationService) GetNegotiation(ctx context.Context, userID, id uint) (*models.Negotiation, error) {
	n, err := s.negRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.ClientID != userID && n.ProviderID != userID {
		return nil, models.NewUnauthorizedError("You are not part of this negotiation")
	}
	return n, nil
}

func (s *NegotiationService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Negotiation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.negRepo.ListForUser(ctx, userID, limit, offset)
}

func (s *NegotiationService) SendMessage(ctx context.Context, in SendMessageInput) (*models.NegotiationMessage, error) {
	const maxBodyLen = 10000

	if in.Body == "" {
		return nil, models.NewValidationError("Message body is required")
	}
	if len(in.Body) > maxBodyLen {
		return nil, models.NewValidationError("Message too long (max 10000 characters)")
	}

	n, err := s.GetNegotiation(ctx, in.SenderID, in.NegotiationID)
	if err != nil {
		return nil, err
	}
	if n.Status != models.NegotiationStatusOpen {
		return nil, models.NewValidationError("Negotiation is closed")
	}

	msg := &models.NegotiationMessage{
		NegotiationID: n.ID,
		SenderID:      in.SenderID,
		Body:          in.Body,
	}
	if err := s.negRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (s *NegotiationService) ListMessages(ctx context.Context, userID, negotiationID uint, limit, offset int) ([]*models.NegotiationMessage, error) {
	if _, err := s.GetNegotiation(ctx, userID, negotiationID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.negRepo.ListMessages(ctx, negotiationID, limit, offset)
}

// Accept closes the negotiation and issues its contract in one transaction.
// Only the provider can accept.
func (s *NegotiationService) Accept(ctx context.Context, userID, negotiationID uint) (*models.Contract, error) {
	n, err := s.negRepo.GetByID(ctx, negotiationID)
	if err != nil {
		return nil, err
	}
	if n.ProviderID != userID {
		return nil, models.NewUnauthorizedError("Only the provider can accept a negotiation")
	}
	if n.Status != models.NegotiationStatusOpen {
		return nil, models.NewConflictError("Negotiation is already closed")
	}

	offer, err := s.offerRepo.GetByID(ctx, n.OfferID)
	if err != nil {
		return nil, err
	}

	contract := &models.Contract{
		Reference:     uuid.NewString(),
		OfferID:       n.OfferID,
		NegotiationID: n.ID,
		ClientID:      n.ClientID,
		ProviderID:    n.ProviderID,
		Price:         offer.Price,
		Status:        models.ContractStatusPending,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txNegs := repository.NewNegotiationRepository(tx)
		txContracts := repository.NewContractRepository(tx)

		n.Status = models.NegotiationStatusAccepted
		if err := txNegs.Update(ctx, n); err != nil {
			return err
		}
		return txContracts.Create(ctx, contract)
	})
	if err != nil {
		return nil, err
	}

	return contract, nil
}

// Decline closes the negotiation without a contract. Either party may decline.
func (s *NegotiationService) Decline(ctx context.Context, userID, negotiationID uint) (*models.Negotiation, error) {
	n, err := s.GetNegotiation(ctx, userID, negotiationID)
	if err != nil {
		return nil, err
	}
	if n.Status != models.NegotiationStatusOpen {
		return nil, models.NewConflictError("Negotiation is already closed")
	}

	n.Status = models.NegotiationStatusDeclined
	if err := s.negRepo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}
