package server

import (
	"time"

	"bazaar/internal/models"
	"bazaar/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/publications/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	publicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content         string `json:"content"`
		ParentCommentID *uint  `json:"parent_comment_id,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(ctx, service.CreateCommentInput{
		UserID:          userID,
		PublicationID:   publicationID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishBroadcastEvent(EventCommentCreated, map[string]interface{}{
		"comment_id":        comment.ID,
		"publication_id":    comment.PublicationID,
		"parent_comment_id": comment.ParentCommentID,
		"author_id":         comment.UserID,
		"created_at":        time.Now().UTC().Format(time.RFC3339Nano),
	})

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// GetComments handles GET /api/publications/:id/comments
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	publicationID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c, 50)

	comments, err := s.commentService.ListComments(ctx, publicationID, page.Limit, page.Offset)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comments)
}

// GetComment handles GET /api/comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(ctx, id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(comment)
}

// GetCommentReplies handles GET /api/comments/:id/replies
func (s *Server) GetCommentReplies(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.commentService.ListReplies(ctx, id)
	if err != nil {
		return respondAppError(c, err)
	}
	return c.JSON(replies)
}

// UpdateComment handles PUT /api/comments/:id
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(ctx, service.UpdateCommentInput{
		UserID:    userID,
		CommentID: id,
		Content:   req.Content,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishBroadcastEvent(EventCommentUpdated, map[string]interface{}{
		"comment_id":     comment.ID,
		"publication_id": comment.PublicationID,
	})

	return c.JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id. Deleting a comment removes
// its whole reply subtree; the response reports how many rows went with it.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	res, err := s.commentService.DeleteComment(ctx, service.DeleteCommentInput{
		UserID:    userID,
		CommentID: id,
	})
	if err != nil {
		return respondAppError(c, err)
	}

	s.publishBroadcastEvent(EventCommentDeleted, map[string]interface{}{
		"comment_id": id,
		"deleted":    res.Deleted,
	})

	return c.JSON(fiber.Map{"deleted_comments": res.Deleted})
}
