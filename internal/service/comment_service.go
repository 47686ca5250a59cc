package service

import (
	"context"
	"errors"
	"time"

	"bazaar/internal/engagement"
	"bazaar/internal/models"
	"bazaar/internal/repository"

	"gorm.io/gorm"
)

// editWindow is how long the author of a comment may still edit it.
const editWindow = 15 * time.Minute

// CommentService writes threaded comments. Creation and the publication's
// denormalized comment counter move in one transaction; deletion always goes
// through the cascade engine so a reply subtree never outlives its root.
type CommentService struct {
	db          *gorm.DB
	commentRepo repository.CommentRepository
	counters    *engagement.Dispatcher
	cascade     *engagement.Cascade
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type CreateCommentInput struct {
	UserID          uint
	PublicationID   uint
	ParentCommentID *uint
	Content         string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

func NewCommentService(
	db *gorm.DB,
	commentRepo repository.CommentRepository,
	counters *engagement.Dispatcher,
	cascade *engagement.Cascade,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *CommentService {
	return &CommentService{
		db:          db,
		commentRepo: commentRepo,
		counters:    counters,
		cascade:     cascade,
		isAdmin:     isAdmin,
	}
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	const maxCommentLen = 10000

	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}
	if len(in.Content) > maxCommentLen {
		return nil, models.NewValidationError("Comment too long (max 10000 characters)")
	}

	comment := &models.Comment{
		PublicationID:   in.PublicationID,
		UserID:          in.UserID,
		Content:         in.Content,
		ParentCommentID: in.ParentCommentID,
		Status:          models.CommentStatusApproved,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txComments := repository.NewCommentRepository(tx)

		if in.ParentCommentID != nil {
			parent, err := txComments.GetByID(ctx, *in.ParentCommentID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.NewNotFoundError("Comment", *in.ParentCommentID)
				}
				return err
			}
			if parent.PublicationID != in.PublicationID {
				return models.NewValidationError("Parent comment belongs to a different publication")
			}
		}

		if err := txComments.Create(ctx, comment); err != nil {
			return err
		}

		// The counter moves with the row. A missing publication surfaces
		// here and rolls the comment back with it.
		res, err := s.counters.AdjustCommentCount(ctx, tx, in.PublicationID, 1)
		if err != nil {
			return err
		}
		if res == engagement.AdjustTargetMissing {
			return models.NewNotFoundError("Publication", in.PublicationID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListComments(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Comment, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.commentRepo.ListByPublication(ctx, publicationID, limit, offset)
}

func (s *CommentService) ListReplies(ctx context.Context, parentID uint) ([]*models.Comment, error) {
	if _, err := s.GetComment(ctx, parentID); err != nil {
		return nil, err
	}
	return s.commentRepo.FindDirectChildren(ctx, parentID)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.GetComment(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewUnauthorizedError("You can only update your own comments")
	}
	if time.Since(comment.CreatedAt) > editWindow {
		return nil, models.NewValidationError("Comments can only be edited within 15 minutes")
	}
	if in.Content == "" {
		return nil, models.NewValidationError("Content is required")
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment removes the comment and its whole reply subtree. The result
// reports how many comments went with it.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) (engagement.CascadeResult, error) {
	comment, err := s.GetComment(ctx, in.CommentID)
	if err != nil {
		return engagement.CascadeResult{}, err
	}

	if comment.UserID != in.UserID {
		if s.isAdmin == nil {
			return engagement.CascadeResult{}, models.NewUnauthorizedError("You can only delete your own comments")
		}
		admin, err := s.isAdmin(ctx, in.UserID)
		if err != nil {
			return engagement.CascadeResult{}, err
		}
		if !admin {
			return engagement.CascadeResult{}, models.NewUnauthorizedError("You can only delete your own comments")
		}
	}

	res, err := s.cascade.DeleteCommentSubtree(ctx, in.CommentID)
	if err != nil {
		return engagement.CascadeResult{}, err
	}
	if !res.Found {
		// A concurrent deletion removed the subtree after the ownership
		// check. Same outcome as deleting a comment that never existed.
		return res, models.NewNotFoundError("Comment", in.CommentID)
	}
	return res, nil
}
