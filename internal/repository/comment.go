package repository

import (
	"context"

	"bazaar/internal/models"
	"bazaar/internal/observability"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for threaded comments.
// DeleteMany and FindChildIDs exist for the cascade deletion engine; single
// comment deletion always goes through the cascade so reply subtrees and
// like rows never outlive their parent.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPublication(ctx context.Context, publicationID uint, limit, offset int) ([]*models.Comment, error)
	FindDirectChildren(ctx context.Context, parentID uint) ([]*models.Comment, error)
	FindChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error)
	Update(ctx context.Context, comment *models.Comment) error
	DeleteMany(ctx context.Context, ids []uint) (int64, error)
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a CommentRepository bound to db, which may be
// a transaction handle.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) ListByPublication(
	ctx context.Context,
	publicationID uint,
	limit, offset int,
) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("publication_id = ?", publicationID).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&comments).Error
	return comments, err
}

func (r *commentRepository) FindDirectChildren(ctx context.Context, parentID uint) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("parent_comment_id = ?", parentID).
		Order("created_at ASC").
		Find(&comments).Error
	return comments, err
}

// FindChildIDs returns the ids of all comments whose parent is any of
// parentIDs, one breadth-first traversal step over the whole frontier in a
// single query.
func (r *commentRepository) FindChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error) {
	defer observability.TrackQuery("find_child_ids", "comments")()

	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("parent_comment_id IN ?", parentIDs).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *commentRepository) Update(ctx context.Context, comment *models.Comment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

// DeleteMany hard-deletes the given comment ids and returns how many rows
// were actually removed. A concurrent cascade may have deleted some or all
// of them first; callers use the returned count, not len(ids).
func (r *commentRepository) DeleteMany(ctx context.Context, ids []uint) (int64, error) {
	defer observability.TrackQuery("delete_many", "comments")()

	if len(ids) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Comment{})
	return res.RowsAffected, res.Error
}
