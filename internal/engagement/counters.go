// Package engagement keeps the denormalized like/comment counters consistent
// with their underlying rows under concurrent likes, unlikes and cascading
// comment deletion. All multi-row writes go through a single database
// transaction; the counters themselves are mutated nowhere else in the
// codebase.
package engagement

import (
	"context"
	"fmt"
	"log/slog"

	"bazaar/internal/models"
	"bazaar/internal/observability"

	"gorm.io/gorm"
)

// AdjustResult reports the outcome of a counter adjustment.
type AdjustResult int

const (
	// AdjustApplied means the counter changed by the requested delta.
	AdjustApplied AdjustResult = iota
	// AdjustClamped means the decrement would have gone below zero and the
	// counter was set to zero instead. The operation still succeeds; the
	// clamp is logged as an inconsistency signal.
	AdjustClamped
	// AdjustTargetMissing means no row with the given id exists. The caller
	// decides whether that aborts the operation (like) or is merely logged
	// (unlike after the target vanished).
	AdjustTargetMissing
)

func (r AdjustResult) String() string {
	switch r {
	case AdjustApplied:
		return "applied"
	case AdjustClamped:
		return "clamped"
	case AdjustTargetMissing:
		return "target_missing"
	}
	return fmt.Sprintf("AdjustResult(%d)", int(r))
}

// counterTarget describes where one likeable type stores its counters.
type counterTarget struct {
	model      interface{}
	likeColumn string
}

// Dispatcher maps a target type to the table holding that type's
// denormalized counters and issues bounded adjustments. New likeable entity
// types are added through Register; no other component branches on target
// type.
type Dispatcher struct {
	targets map[models.TargetType]counterTarget
	log     *observability.Logger
}

// NewDispatcher returns a Dispatcher with the built-in publication and
// comment targets registered.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		targets: make(map[models.TargetType]counterTarget),
		log:     observability.NewLogger(log),
	}
	d.Register(models.TargetPublication, &models.Publication{}, "like_count")
	d.Register(models.TargetComment, &models.Comment{}, "like_count")
	return d
}

// Register adds a counter target for a likeable type. likeColumn must be a
// schema-controlled column name, never user input.
func (d *Dispatcher) Register(target models.TargetType, model interface{}, likeColumn string) {
	d.targets[target] = counterTarget{model: model, likeColumn: likeColumn}
}

// AdjustLikeCount applies delta (+1 or -1) to the like counter of the given
// target. It must be called with the *gorm.DB of the enclosing transaction.
func (d *Dispatcher) AdjustLikeCount(ctx context.Context, tx *gorm.DB, target models.TargetType, id uint, delta int64) (AdjustResult, error) {
	t, ok := d.targets[target]
	if !ok {
		return 0, fmt.Errorf("engagement: unregistered target type %q", target)
	}
	return d.adjust(ctx, tx, t.model, t.likeColumn, string(target), id, delta)
}

// AdjustCommentCount applies delta to a publication's total comment counter.
// Delta may be a multi-unit batch; cascade deletion passes the negated
// subtree size.
func (d *Dispatcher) AdjustCommentCount(ctx context.Context, tx *gorm.DB, publicationID uint, delta int64) (AdjustResult, error) {
	return d.adjust(ctx, tx, &models.Publication{}, "comment_count", string(models.TargetPublication), publicationID, delta)
}

// adjust performs a bounded counter update: the stored value never goes
// negative. The guarded UPDATE only matches when the result stays >= 0, so
// the common path is a single statement; the fallback distinguishes a
// missing row from an underflowing decrement.
func (d *Dispatcher) adjust(ctx context.Context, tx *gorm.DB, model interface{}, column, targetType string, id uint, delta int64) (AdjustResult, error) {
	res := tx.WithContext(ctx).Model(model).
		Where("id = ?", id).
		Where(column+" + ? >= 0", delta).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		return AdjustApplied, nil
	}

	var count int64
	if err := tx.WithContext(ctx).Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	if count == 0 {
		return AdjustTargetMissing, nil
	}

	// The row exists but the decrement would underflow: clamp to zero and
	// flag the drift for operators.
	if err := tx.WithContext(ctx).Model(model).Where("id = ?", id).UpdateColumn(column, 0).Error; err != nil {
		return 0, err
	}
	observability.CounterInconsistencies.WithLabelValues(observability.ReasonClampedNegative, targetType).Inc()
	d.log.InconsistencyWarn(ctx, "counter decrement clamped at zero",
		slog.String("target_type", targetType),
		slog.String("column", column),
		slog.Uint64("id", uint64(id)),
		slog.Int64("delta", delta),
	)
	return AdjustClamped, nil
}
