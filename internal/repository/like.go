package repository

import (
	"context"
	"errors"

	"bazaar/internal/models"
	"bazaar/internal/observability"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateLike is returned by LikeRepository.Create when the
// (user, target, target type) triple already has a like row. Concurrent
// like calls race on the unique index; the loser gets this error and the
// coordinator treats it as the normal "already liked" outcome.
var ErrDuplicateLike = errors.New("like already exists")

// LikeRepository defines persistence operations for like rows.
//
// Construct it with the *gorm.DB of the enclosing transaction when the
// operation must be atomic with other writes; the repository itself never
// opens transactions.
type LikeRepository interface {
	Create(ctx context.Context, like *models.Like) error
	Delete(ctx context.Context, userID, targetID uint, target models.TargetType) (bool, error)
	Get(ctx context.Context, userID, targetID uint, target models.TargetType) (*models.Like, error)
	Exists(ctx context.Context, userID, targetID uint, target models.TargetType) (bool, error)
	ListForTarget(ctx context.Context, targetID uint, target models.TargetType, limit, offset int) ([]*models.Like, error)
	ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Like, error)
	DeleteForTargets(ctx context.Context, targetIDs []uint, target models.TargetType) (int64, error)
}

type likeRepository struct {
	db *gorm.DB
}

// NewLikeRepository returns a LikeRepository bound to db, which may be a
// transaction handle.
func NewLikeRepository(db *gorm.DB) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *models.Like) error {
	defer observability.TrackQuery("create", "likes")()

	// ON CONFLICT DO NOTHING instead of catching the unique-violation error:
	// a failed INSERT would poison the enclosing Postgres transaction, and
	// the coordinator still needs to read the existing row afterwards.
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(like)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrDuplicateLike
	}
	return nil
}

// Delete removes at most one like row and reports whether one existed.
// Deleting a non-existent like is not an error.
func (r *likeRepository) Delete(ctx context.Context, userID, targetID uint, target models.TargetType) (bool, error) {
	defer observability.TrackQuery("delete", "likes")()

	res := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, target).
		Delete(&models.Like{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *likeRepository) Get(ctx context.Context, userID, targetID uint, target models.TargetType) (*models.Like, error) {
	defer observability.TrackQuery("get", "likes")()

	var like models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, target).
		First(&like).Error
	if err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *likeRepository) Exists(ctx context.Context, userID, targetID uint, target models.TargetType) (bool, error) {
	defer observability.TrackQuery("exists", "likes")()

	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND target_id = ? AND target_type = ?", userID, targetID, target).
		Count(&count).Error
	return count > 0, err
}

func (r *likeRepository) ListForTarget(ctx context.Context, targetID uint, target models.TargetType, limit, offset int) ([]*models.Like, error) {
	defer observability.TrackQuery("list_for_target", "likes")()

	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("target_id = ? AND target_type = ?", targetID, target).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	return likes, err
}

func (r *likeRepository) ListForUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Like, error) {
	defer observability.TrackQuery("list_for_user", "likes")()

	var likes []*models.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&likes).Error
	return likes, err
}

// DeleteForTargets bulk-removes every like row pointing at any of targetIDs.
// Used by cascade deletion to purge likes of a removed comment subtree.
func (r *likeRepository) DeleteForTargets(ctx context.Context, targetIDs []uint, target models.TargetType) (int64, error) {
	defer observability.TrackQuery("delete_for_targets", "likes")()

	if len(targetIDs) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).
		Where("target_id IN ? AND target_type = ?", targetIDs, target).
		Delete(&models.Like{})
	return res.RowsAffected, res.Error
}
