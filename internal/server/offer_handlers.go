package server

import (
	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateOffer handles POST /api/offers
func (s *Server) CreateOffer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Price       int64  `json:"price"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	offer, err := s.offerService.CreateOffer(ctx, service.CreateOfferInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishBroadcastEvent(EventOfferCreated, map[string]interface{}{
		"offer_id":    offer.ID,
		"provider_id": offer.UserID,
		"category":    offer.Category,
	})

	return c.Status(fiber.StatusCreated).JSON(offer)
}

// GetOffers handles GET /api/offers
func (s *Server) GetOffers(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)
	category := c.Query("category")

	offers, err := s.offerService.ListOffers(ctx, category, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(offers)
}

// GetOffer handles GET /api/offers/:id
func (s *Server) GetOffer(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	offer, err := s.offerService.GetOffer(ctx, id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(offer)
}

// GetUserOffers handles GET /api/users/:id/offers
func (s *Server) GetUserOffers(c *fiber.Ctx) error {
	ctx := c.Context()
	userID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	offers, err := s.offerService.ListByUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(offers)
}

// UpdateOffer handles PUT /api/offers/:id
func (s *Server) UpdateOffer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Price       *int64 `json:"price,omitempty"`
		Status      string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	offer, err := s.offerService.UpdateOffer(ctx, service.UpdateOfferInput{
		UserID:      userID,
		OfferID:     id,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Status:      req.Status,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(offer)
}

// DeleteOffer handles DELETE /api/offers/:id
func (s *Server) DeleteOffer(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.offerService.DeleteOffer(ctx, userID, id); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
