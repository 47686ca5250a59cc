package service

import (
	"context"
	"testing"

	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
)

// contractRepoStub is a stub for repository.ContractRepository.
type contractRepoStub struct {
	createFn         func(context.Context, *models.Contract) error
	getByIDFn        func(context.Context, uint) (*models.Contract, error)
	getByReferenceFn func(context.Context, string) (*models.Contract, error)
	listForUserFn    func(context.Context, uint, int, int) ([]*models.Contract, error)
	updateFn         func(context.Context, *models.Contract) error
}

func (s *contractRepoStub) Create(ctx context.Context, contract *models.Contract) error {
	return s.createFn(ctx, contract)
}
func (s *contractRepoStub) GetByID(ctx context.Context, id uint) (*models.Contract, error) {
	return s.getByIDFn(ctx, id)
}
func (s *contractRepoStub) GetByReference(ctx context.Context, reference string) (*models.Contract, error) {
	return s.getByReferenceFn(ctx, reference)
}
func (s *contractRepoStub) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Contract, error) {
	return s.listForUserFn(ctx, userID, limit, offset)
}
func (s *contractRepoStub) Update(ctx context.Context, contract *models.Contract) error {
	return s.updateFn(ctx, contract)
}

func contractRepoWith(contract *models.Contract) *contractRepoStub {
	return &contractRepoStub{
		createFn:         func(_ context.Context, _ *models.Contract) error { return nil },
		getByIDFn:        func(_ context.Context, _ uint) (*models.Contract, error) { return contract, nil },
		getByReferenceFn: func(_ context.Context, _ string) (*models.Contract, error) { return contract, nil },
		listForUserFn:    func(_ context.Context, _ uint, _, _ int) ([]*models.Contract, error) { return nil, nil },
		updateFn:         func(_ context.Context, _ *models.Contract) error { return nil },
	}
}

func TestContractService_PartyChecks(t *testing.T) {
	t.Parallel()

	contract := &models.Contract{ID: 1, Reference: "ref-1", ClientID: 10, ProviderID: 20, Status: models.ContractStatusPending}
	svc := NewContractService(contractRepoWith(contract))
	ctx := context.Background()

	t.Run("client reads", func(t *testing.T) {
		t.Parallel()
		got, err := svc.GetContract(ctx, 10, 1)
		assert.NoError(t, err)
		assert.Equal(t, contract.ID, got.ID)
	})

	t.Run("provider reads by reference", func(t *testing.T) {
		t.Parallel()
		_, err := svc.GetByReference(ctx, 20, "ref-1")
		assert.NoError(t, err)
	})

	t.Run("outsider rejected", func(t *testing.T) {
		t.Parallel()
		_, err := svc.GetContract(ctx, 30, 1)
		assertUnauthorizedError(t, err)
		_, err = svc.GetByReference(ctx, 30, "ref-1")
		assertUnauthorizedError(t, err)
	})
}

func TestContractService_UpdateStatus(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	newSvc := func(status string) *ContractService {
		contract := &models.Contract{ID: 1, ClientID: 10, ProviderID: 20, Status: status}
		return NewContractService(contractRepoWith(contract))
	}

	t.Run("client activates pending contract", func(t *testing.T) {
		t.Parallel()
		got, err := newSvc(models.ContractStatusPending).UpdateStatus(ctx, UpdateContractStatusInput{
			UserID: 10, ContractID: 1, Status: models.ContractStatusActive,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.ContractStatusActive, got.Status)
	})

	t.Run("provider cannot activate", func(t *testing.T) {
		t.Parallel()
		_, err := newSvc(models.ContractStatusPending).UpdateStatus(ctx, UpdateContractStatusInput{
			UserID: 20, ContractID: 1, Status: models.ContractStatusActive,
		})
		assertUnauthorizedError(t, err)
	})

	t.Run("provider completes active contract", func(t *testing.T) {
		t.Parallel()
		got, err := newSvc(models.ContractStatusActive).UpdateStatus(ctx, UpdateContractStatusInput{
			UserID: 20, ContractID: 1, Status: models.ContractStatusCompleted,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.ContractStatusCompleted, got.Status)
	})

	t.Run("cannot complete pending contract", func(t *testing.T) {
		t.Parallel()
		_, err := newSvc(models.ContractStatusPending).UpdateStatus(ctx, UpdateContractStatusInput{
			UserID: 20, ContractID: 1, Status: models.ContractStatusCompleted,
		})
		assertConflictError(t, err)
	})

	t.Run("either party cancels", func(t *testing.T) {
		t.Parallel()
		got, err := newSvc(models.ContractStatusActive).UpdateStatus(ctx, UpdateContractStatusInput{
			UserID: 10, ContractID: 1, Status: models.ContractStatusCancelled,
		})
		assert.NoError(t, err)
		assert.Equal(t, models.ContractStatusCancelled, got.Status)
	})

	t.Run("cancelling a completed contract conflicts", func(t *testing.T) {
		t.Parallel()
		_, err := newSvc(models.ContractStatusCompleted).UpdateStatus(ctx, UpdateContractStatusInput{
			UserID: 10, ContractID: 1, Status: models.ContractStatusCancelled,
		})
		assertConflictError(t, err)
	})

	t.Run("unknown status rejected", func(t *testing.T) {
		t.Parallel()
		_, err := newSvc(models.ContractStatusPending).UpdateStatus(ctx, UpdateContractStatusInput{
			UserID: 10, ContractID: 1, Status: "paused",
		})
		assertValidationError(t, err)
	})
}
