package engagement

import (
	"context"
	"errors"
	"log/slog"

	"bazaar/internal/models"
	"bazaar/internal/observability"
	"bazaar/internal/repository"

	"gorm.io/gorm"
)

// errAbort rolls back a transaction whose outcome is a normal result value,
// not a failure (already liked, nothing to unlike, target missing).
var errAbort = errors.New("engagement: abort transaction")

// LikeStatus is the outcome of a Like call.
type LikeStatus int

const (
	// LikeCreated means a new like row was written and the counter incremented.
	LikeCreated LikeStatus = iota
	// LikeAlreadyExists means the user had already liked this target. The
	// existing like is returned; nothing changed.
	LikeAlreadyExists
	// LikeTargetMissing means the target does not exist; nothing was recorded.
	LikeTargetMissing
)

// LikeResult is the result of a Like call. Like is set for LikeCreated and
// LikeAlreadyExists.
type LikeResult struct {
	Status LikeStatus
	Like   *models.Like
}

// UnlikeStatus is the outcome of an Unlike call.
type UnlikeStatus int

const (
	// Unliked means the like row was removed and the counter decremented.
	Unliked UnlikeStatus = iota
	// NotLiked means there was no like to remove. Idempotent success.
	NotLiked
)

// UnlikeResult is the result of an Unlike call. CounterMissing flags the
// inconsistency where the like existed but its target had already vanished;
// the unlike still succeeds.
type UnlikeResult struct {
	Status         UnlikeStatus
	CounterMissing bool
}

// Coordinator orchestrates like and unlike as one atomic unit: the like row
// and the target's denormalized counter are written in a single transaction
// so no concurrent reader ever observes a half-applied state.
type Coordinator struct {
	db       *gorm.DB
	counters *Dispatcher
	log      *observability.Logger
}

// NewCoordinator returns a Coordinator using db for transactions.
func NewCoordinator(db *gorm.DB, counters *Dispatcher, log *slog.Logger) *Coordinator {
	return &Coordinator{db: db, counters: counters, log: observability.NewLogger(log)}
}

// Like records userID's like of the given target. Concurrent duplicate likes
// race on the store's unique index; the loser observes LikeAlreadyExists,
// which makes Like idempotent without any explicit locking.
func (c *Coordinator) Like(ctx context.Context, userID, targetID uint, target models.TargetType) (LikeResult, error) {
	var out LikeResult

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := repository.NewLikeRepository(tx)

		like := &models.Like{UserID: userID, TargetID: targetID, TargetType: target}
		if err := likes.Create(ctx, like); err != nil {
			if errors.Is(err, repository.ErrDuplicateLike) {
				existing, lookupErr := likes.Get(ctx, userID, targetID, target)
				if lookupErr != nil {
					return lookupErr
				}
				out = LikeResult{Status: LikeAlreadyExists, Like: existing}
				return errAbort
			}
			return err
		}

		res, err := c.counters.AdjustLikeCount(ctx, tx, target, targetID, 1)
		if err != nil {
			return err
		}
		if res == AdjustTargetMissing {
			// A like must not be recorded for a target that does not exist.
			out = LikeResult{Status: LikeTargetMissing}
			return errAbort
		}

		out = LikeResult{Status: LikeCreated, Like: like}
		return nil
	})
	if err != nil && !errors.Is(err, errAbort) {
		return LikeResult{}, err
	}
	return out, nil
}

// Unlike removes userID's like of the given target. Unliking something that
// was never liked reports NotLiked and changes nothing.
func (c *Coordinator) Unlike(ctx context.Context, userID, targetID uint, target models.TargetType) (UnlikeResult, error) {
	var out UnlikeResult

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likes := repository.NewLikeRepository(tx)

		removed, err := likes.Delete(ctx, userID, targetID, target)
		if err != nil {
			return err
		}
		if !removed {
			out = UnlikeResult{Status: NotLiked}
			return errAbort
		}

		res, err := c.counters.AdjustLikeCount(ctx, tx, target, targetID, -1)
		if err != nil {
			return err
		}
		if res == AdjustTargetMissing {
			// The like existed but its target vanished without cascading its
			// likes. Commit the deletion anyway (the like must not resurrect)
			// and surface the drift to operators.
			observability.CounterInconsistencies.WithLabelValues(observability.ReasonTargetMissing, string(target)).Inc()
			c.log.InconsistencyWarn(ctx, "unlike on missing target, like removed without counter adjustment",
				slog.Uint64("user_id", uint64(userID)),
				slog.Uint64("target_id", uint64(targetID)),
				slog.String("target_type", string(target)),
			)
			out = UnlikeResult{Status: Unliked, CounterMissing: true}
			return nil
		}

		out = UnlikeResult{Status: Unliked}
		return nil
	})
	if err != nil && !errors.Is(err, errAbort) {
		return UnlikeResult{}, err
	}
	return out, nil
}

// IsLiked reports whether userID has liked the given target. Pure read, no
// transaction.
func (c *Coordinator) IsLiked(ctx context.Context, userID, targetID uint, target models.TargetType) (bool, error) {
	return repository.NewLikeRepository(c.db).Exists(ctx, userID, targetID, target)
}
