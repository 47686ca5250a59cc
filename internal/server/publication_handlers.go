package server

import (
	"time"

	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePublication handles POST /api/publications
func (s *Server) CreatePublication(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	var req struct {
		Type      string     `json:"type"`
		Title     string     `json:"title"`
		Content   string     `json:"content"`
		EventDate *time.Time `json:"event_date,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pub, err := s.publicationService.CreatePublication(ctx, service.CreatePublicationInput{
		UserID:    userID,
		Type:      req.Type,
		Title:     req.Title,
		Content:   req.Content,
		EventDate: req.EventDate,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishBroadcastEvent(EventPublicationCreated, map[string]interface{}{
		"publication_id": pub.ID,
		"author_id":      pub.UserID,
		"type":           pub.Type,
		"created_at":     time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(pub)
}

// GetFeed handles GET /api/publications
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	page := parsePagination(c, 20)

	pubs, err := s.publicationService.ListFeed(ctx, service.ListFeedInput{
		Type:   c.Query("type"),
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	// Mark the viewer's liked items on the page.
	if userID, ok := s.optionalUserID(c); ok {
		for _, pub := range pubs {
			liked, lerr := s.coordinator.IsLiked(ctx, userID, pub.ID, models.TargetPublication)
			if lerr == nil {
				pub.Liked = liked
			}
		}
	}

	return c.JSON(pubs)
}

// GetPublication handles GET /api/publications/:id
func (s *Server) GetPublication(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	pub, err := s.publicationService.GetPublication(ctx, id)
	if err != nil {
		return respondAppError(c, err)
	}

	if userID, ok := s.optionalUserID(c); ok {
		liked, lerr := s.coordinator.IsLiked(ctx, userID, pub.ID, models.TargetPublication)
		if lerr == nil {
			pub.Liked = liked
		}
	}

	return c.JSON(pub)
}

// GetUserPublications handles GET /api/users/:id/publications
func (s *Server) GetUserPublications(c *fiber.Ctx) error {
	ctx := c.Context()
	userIDParam, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	pubs, err := s.publicationService.ListByUser(ctx, userIDParam, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(pubs)
}

// UpdatePublication handles PUT /api/publications/:id
func (s *Server) UpdatePublication(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	pubID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title     string     `json:"title"`
		Content   string     `json:"content"`
		EventDate *time.Time `json:"event_date,omitempty"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pub, err := s.publicationService.UpdatePublication(ctx, service.UpdatePublicationInput{
		UserID:        userID,
		PublicationID: pubID,
		Title:         req.Title,
		Content:       req.Content,
		EventDate:     req.EventDate,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(pub)
}

// ModeratePublication handles POST /api/publications/:id/moderate
func (s *Server) ModeratePublication(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	pubID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Status string `json:"status"`
	}
	if parseErr := c.BodyParser(&req); parseErr != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	pub, err := s.publicationService.ModeratePublication(ctx, service.ModeratePublicationInput{
		UserID:        userID,
		PublicationID: pubID,
		Status:        req.Status,
	})
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(pub)
}

// DeletePublication handles DELETE /api/publications/:id
func (s *Server) DeletePublication(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	pubID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.publicationService.DeletePublication(ctx, userID, pubID); err != nil {
		return respondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
