package server

import (
	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyContracts handles GET /api/contracts
func (s *Server) GetMyContracts(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	contracts, err := s.contractService.ListForUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(contracts)
}

// GetContract handles GET /api/contracts/:id
func (s *Server) GetContract(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	contract, err := s.contractService.GetContract(ctx, userID, id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(contract)
}

// GetContractByReference handles GET /api/contracts/reference/:reference
func (s *Server) GetContractByReference(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	reference := c.Params("reference")
	if reference == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Reference is required"))
	}

	contract, err := s.contractService.GetByReference(ctx, userID, reference)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(contract)
}

// UpdateContractStatus handles PUT /api/contracts/:id/status
func (s *Server) UpdateContractStatus(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	contract, err := s.contractService.UpdateStatus(ctx, service.UpdateContractStatusInput{
		UserID:     userID,
		ContractID: id,
		Status:     req.Status,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	counterpart := contract.ClientID
	if userID == contract.ClientID {
		counterpart = contract.ProviderID
	}
	s.publishUserEvent(counterpart, EventContractStatusChange, map[string]interface{}{
		"contract_id": contract.ID,
		"reference":   contract.Reference,
		"status":      contract.Status,
	})

	return c.JSON(contract)
}
