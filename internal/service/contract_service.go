package service

import (
	"context"

	"bazaar/internal/models"
	"bazaar/internal/repository"
)

type ContractService struct {
	contractRepo repository.ContractRepository
}

type UpdateContractStatusInput struct {
	UserID     uint
	ContractID uint
	Status     string
}

func NewContractService(contractRepo repository.ContractRepository) *ContractService {
	return &ContractService{contractRepo: contractRepo}
}

func (s *ContractService) GetContract(ctx context.Context, userID, id uint) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != userID && contract.ProviderID != userID {
		return nil, models.NewUnauthorizedError("You are not a party to this contract")
	}
	return contract, nil
}

func (s *ContractService) GetByReference(ctx context.Context, userID uint, reference string) (*models.Contract, error) {
	contract, err := s.contractRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if contract.ClientID != userID && contract.ProviderID != userID {
		return nil, models.NewUnauthorizedError("You are not a party to this contract")
	}
	return contract, nil
}

func (s *ContractService) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Contract, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.contractRepo.ListForUser(ctx, userID, limit, offset)
}

// UpdateStatus moves a contract along pending -> active -> completed, or to
// cancelled from any non-terminal state. The client confirms activation; the
// provider marks completion; either party can cancel.
func (s *ContractService) UpdateStatus(ctx context.Context, in UpdateContractStatusInput) (*models.Contract, error) {
	contract, err := s.GetContract(ctx, in.UserID, in.ContractID)
	if err != nil {
		return nil, err
	}

	switch in.Status {
	case models.ContractStatusActive:
		if contract.Status != models.ContractStatusPending {
			return nil, models.NewConflictError("Only pending contracts can be activated")
		}
		if contract.ClientID != in.UserID {
			return nil, models.NewUnauthorizedError("Only the client can activate a contract")
		}
	case models.ContractStatusCompleted:
		if contract.Status != models.ContractStatusActive {
			return nil, models.NewConflictError("Only active contracts can be completed")
		}
		if contract.ProviderID != in.UserID {
			return nil, models.NewUnauthorizedError("Only the provider can complete a contract")
		}
	case models.ContractStatusCancelled:
		if contract.Status == models.ContractStatusCompleted || contract.Status == models.ContractStatusCancelled {
			return nil, models.NewConflictError("Contract is already closed")
		}
	default:
		return nil, models.NewValidationError("Unknown contract status")
	}

	contract.Status = in.Status
	if err := s.contractRepo.Update(ctx, contract); err != nil {
		return nil, err
	}
	return contract, nil
}
