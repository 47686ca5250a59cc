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

// CascadeResult is the result of a subtree deletion. Found is false when the
// root comment did not exist (including the losing side of two concurrent
// deletions of the same subtree).
type CascadeResult struct {
	Found   bool
	Deleted int64
}

// Cascade deletes a comment together with every comment transitively
// replying to it, purges all like rows targeting any of them, and decrements
// the owning publication's comment counter by the exact number removed, all
// in one transaction.
type Cascade struct {
	db       *gorm.DB
	counters *Dispatcher
	log      *observability.Logger
}

// NewCascade returns a Cascade using db for traversal reads and transactions.
func NewCascade(db *gorm.DB, counters *Dispatcher, log *slog.Logger) *Cascade {
	return &Cascade{db: db, counters: counters, log: observability.NewLogger(log)}
}

// DeleteCommentSubtree removes rootID and its whole reply subtree.
//
// Traversal happens before the transaction opens: comment trees are never
// restructured (a reply's parent is immutable), so reads cannot miss nodes,
// and keeping the discovery reads outside shortens the write transaction.
// The delete itself re-checks what actually existed via affected-row counts.
func (e *Cascade) DeleteCommentSubtree(ctx context.Context, rootID uint) (CascadeResult, error) {
	comments := repository.NewCommentRepository(e.db)

	root, err := comments.GetByID(ctx, rootID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CascadeResult{Found: false}, nil
		}
		return CascadeResult{}, err
	}

	all, err := e.collectSubtreeIDs(ctx, comments, rootID)
	if err != nil {
		return CascadeResult{}, err
	}

	var out CascadeResult
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txComments := repository.NewCommentRepository(tx)
		txLikes := repository.NewLikeRepository(tx)

		deleted, err := txComments.DeleteMany(ctx, all)
		if err != nil {
			return err
		}
		if deleted == 0 {
			// A concurrent cascade removed the subtree between our traversal
			// and this transaction. Nothing to do, and the counter must not
			// be decremented twice.
			out = CascadeResult{Found: false}
			return errAbort
		}

		if _, err := txLikes.DeleteForTargets(ctx, all, models.TargetComment); err != nil {
			return err
		}

		res, err := e.counters.AdjustCommentCount(ctx, tx, root.PublicationID, -deleted)
		if err != nil {
			return err
		}
		if res == AdjustTargetMissing {
			// Publication gone while its comments survived: commit the
			// cleanup, flag the drift.
			observability.CounterInconsistencies.WithLabelValues(observability.ReasonTargetMissing, string(models.TargetPublication)).Inc()
			e.log.InconsistencyWarn(ctx, "cascade deletion on missing publication",
				slog.Uint64("publication_id", uint64(root.PublicationID)),
				slog.Uint64("root_comment_id", uint64(rootID)),
				slog.Int64("deleted", deleted),
			)
		}

		out = CascadeResult{Found: true, Deleted: deleted}
		return nil
	})
	if err != nil && !errors.Is(err, errAbort) {
		return CascadeResult{}, err
	}

	if out.Found {
		observability.CascadeDeletedComments.Observe(float64(out.Deleted))
	}
	return out, nil
}

// collectSubtreeIDs walks the reply tree breadth-first with an explicit
// frontier. Reply depth is user-controlled, so this must be an iterative
// worklist, not recursion. The seen set guards against malformed parent
// links ever producing a cycle.
func (e *Cascade) collectSubtreeIDs(ctx context.Context, comments repository.CommentRepository, rootID uint) ([]uint, error) {
	all := []uint{rootID}
	seen := map[uint]struct{}{rootID: {}}
	frontier := []uint{rootID}

	for len(frontier) > 0 {
		children, err := comments.FindChildIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}
		frontier = frontier[:0]
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			all = append(all, id)
			frontier = append(frontier, id)
		}
	}
	return all, nil
}
