package server

import (
	"time"

	"bazaar/internal/engagement"
	"bazaar/internal/models"

	"github.com/gofiber/fiber/v2"
)

// LikePublication handles POST /api/publications/:id/like
func (s *Server) LikePublication(c *fiber.Ctx) error {
	return s.like(c, models.TargetPublication)
}

// UnlikePublication handles DELETE /api/publications/:id/like
func (s *Server) UnlikePublication(c *fiber.Ctx) error {
	return s.unlike(c, models.TargetPublication)
}

// LikeComment handles POST /api/comments/:id/like
func (s *Server) LikeComment(c *fiber.Ctx) error {
	return s.like(c, models.TargetComment)
}

// UnlikeComment handles DELETE /api/comments/:id/like
func (s *Server) UnlikeComment(c *fiber.Ctx) error {
	return s.unlike(c, models.TargetComment)
}

// like runs the engagement coordinator and maps its outcomes to HTTP.
// Repeating a like is not an error: the client learns the like stands either
// way, so retries are safe.
func (s *Server) like(c *fiber.Ctx, target models.TargetType) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.coordinator.Like(ctx, userID, targetID, target)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	switch res.Status {
	case engagement.LikeTargetMissing:
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError(string(target), targetID))
	case engagement.LikeCreated:
		s.publishEngagementEvent(target, targetID)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"liked": true,
			"like":  res.Like,
		})
	default: // engagement.LikeAlreadyExists
		return c.JSON(fiber.Map{
			"liked": true,
			"like":  res.Like,
		})
	}
}

// unlike is like's inverse. Unliking something never liked succeeds quietly.
func (s *Server) unlike(c *fiber.Ctx, target models.TargetType) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.coordinator.Unlike(ctx, userID, targetID, target)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}

	if res.Status == engagement.Unliked && !res.CounterMissing {
		s.publishEngagementEvent(target, targetID)
	}
	return c.JSON(fiber.Map{"liked": false})
}

// GetPublicationLikes handles GET /api/publications/:id/likes
func (s *Server) GetPublicationLikes(c *fiber.Ctx) error {
	ctx := c.Context()
	targetID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 20)

	likes, err := s.likeRepo.ListForTarget(ctx, targetID, models.TargetPublication, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(likes)
}

// GetMyLikes handles GET /api/users/me/likes. Newest first, so a client can
// page backwards through its own like history.
func (s *Server) GetMyLikes(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	page := parsePagination(c, 20)

	likes, err := s.likeRepo.ListForUser(ctx, userID, page.Limit, page.Offset)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusInternalServerError, err)
	}
	return c.JSON(likes)
}

// publishEngagementEvent broadcasts the target's fresh counter values so
// connected clients can update counts without refetching the feed.
func (s *Server) publishEngagementEvent(target models.TargetType, targetID uint) {
	payload := map[string]interface{}{
		"target_type": string(target),
		"target_id":   targetID,
		"updated_at":  time.Now().UTC().Format(time.RFC3339Nano),
	}

	switch target {
	case models.TargetPublication:
		var pub models.Publication
		if err := s.db.Select("id", "like_count", "comment_count").First(&pub, targetID).Error; err == nil {
			payload["like_count"] = pub.LikeCount
			payload["comment_count"] = pub.CommentCount
		}
	case models.TargetComment:
		var comment models.Comment
		if err := s.db.Select("id", "like_count").First(&comment, targetID).Error; err == nil {
			payload["like_count"] = comment.LikeCount
		}
	}

	s.publishBroadcastEvent(EventEngagementUpdated, payload)
}
