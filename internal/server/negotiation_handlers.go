package server

import (
	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// OpenNegotiation handles POST /api/offers/:id/negotiations. Opening a
// second negotiation on the same offer returns the existing open thread.
func (s *Server) OpenNegotiation(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	offerID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Message string `json:"message"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	neg, err := s.negotiationService.OpenNegotiation(ctx, service.OpenNegotiationInput{
		ClientID: userID,
		OfferID:  offerID,
		Message:  req.Message,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishUserEvent(neg.ProviderID, EventNegotiationOpened, map[string]interface{}{
		"negotiation_id": neg.ID,
		"offer_id":       neg.OfferID,
		"client_id":      neg.ClientID,
	})

	return c.Status(fiber.StatusCreated).JSON(neg)
}

// GetMyNegotiations handles GET /api/negotiations
func (s *Server) GetMyNegotiations(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	negs, err := s.negotiationService.ListForUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(negs)
}

// GetNegotiation handles GET /api/negotiations/:id
func (s *Server) GetNegotiation(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	neg, err := s.negotiationService.GetNegotiation(ctx, userID, id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(neg)
}

// GetNegotiationMessages handles GET /api/negotiations/:id/messages
func (s *Server) GetNegotiationMessages(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	messages, err := s.negotiationService.ListMessages(ctx, userID, id, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(messages)
}

// SendNegotiationMessage handles POST /api/negotiations/:id/messages
func (s *Server) SendNegotiationMessage(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	msg, err := s.negotiationService.SendMessage(ctx, service.SendMessageInput{
		SenderID:      userID,
		NegotiationID: id,
		Body:          req.Body,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	if neg, gerr := s.negotiationService.GetNegotiation(ctx, userID, id); gerr == nil {
		counterpart := neg.ClientID
		if userID == neg.ClientID {
			counterpart = neg.ProviderID
		}
		s.publishUserEvent(counterpart, EventNegotiationMessage, map[string]interface{}{
			"negotiation_id": id,
			"message_id":     msg.ID,
			"sender_id":      userID,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(msg)
}

// AcceptNegotiation handles POST /api/negotiations/:id/accept. Only the
// offer's provider may accept; acceptance issues the contract.
func (s *Server) AcceptNegotiation(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	contract, err := s.negotiationService.Accept(ctx, userID, id)
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishUserEvent(contract.ClientID, EventNegotiationAccepted, map[string]interface{}{
		"negotiation_id": id,
		"contract_id":    contract.ID,
		"reference":      contract.Reference,
	})
	s.publishUserEvent(contract.ClientID, EventContractIssued, map[string]interface{}{
		"contract_id": contract.ID,
		"reference":   contract.Reference,
	})

	return c.Status(fiber.StatusCreated).JSON(contract)
}

// DeclineNegotiation handles POST /api/negotiations/:id/decline
func (s *Server) DeclineNegotiation(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	neg, err := s.negotiationService.Decline(ctx, userID, id)
	if err != nil {
		return respondAppError(c, err)
	}

	counterpart := neg.ClientID
	if userID == neg.ClientID {
		counterpart = neg.ProviderID
	}
	s.publishUserEvent(counterpart, EventNegotiationDeclined, map[string]interface{}{
		"negotiation_id": neg.ID,
	})

	return c.JSON(neg)
}
