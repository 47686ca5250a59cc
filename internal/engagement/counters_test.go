package engagement

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"bazaar/internal/models"
	"bazaar/internal/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherAdjustLikeCount(t *testing.T) {
	db := setupTestDB(t)
	d := NewDispatcher(testLogger())
	ctx := context.Background()

	user := createUser(t, db, "alice")
	pub := createPublication(t, db, user.ID)
	comment := createComment(t, db, pub.ID, user.ID, nil)

	t.Run("IncrementPublication", func(t *testing.T) {
		res, err := d.AdjustLikeCount(ctx, db, models.TargetPublication, pub.ID, 1)
		assert.NoError(t, err)
		assert.Equal(t, AdjustApplied, res)
		assert.Equal(t, int64(1), publicationLikeCount(t, db, pub.ID))
	})

	t.Run("DecrementPublication", func(t *testing.T) {
		res, err := d.AdjustLikeCount(ctx, db, models.TargetPublication, pub.ID, -1)
		assert.NoError(t, err)
		assert.Equal(t, AdjustApplied, res)
		assert.Equal(t, int64(0), publicationLikeCount(t, db, pub.ID))
	})

	t.Run("DecrementBelowZeroClamps", func(t *testing.T) {
		res, err := d.AdjustLikeCount(ctx, db, models.TargetPublication, pub.ID, -1)
		assert.NoError(t, err)
		assert.Equal(t, AdjustClamped, res)
		assert.Equal(t, int64(0), publicationLikeCount(t, db, pub.ID))
	})

	t.Run("IncrementComment", func(t *testing.T) {
		res, err := d.AdjustLikeCount(ctx, db, models.TargetComment, comment.ID, 1)
		assert.NoError(t, err)
		assert.Equal(t, AdjustApplied, res)
		assert.Equal(t, int64(1), commentLikeCount(t, db, comment.ID))
	})

	t.Run("MissingTarget", func(t *testing.T) {
		res, err := d.AdjustLikeCount(ctx, db, models.TargetPublication, 99999, 1)
		assert.NoError(t, err)
		assert.Equal(t, AdjustTargetMissing, res)
	})

	t.Run("UnregisteredTargetType", func(t *testing.T) {
		_, err := d.AdjustLikeCount(ctx, db, models.TargetType("sticker"), pub.ID, 1)
		assert.Error(t, err)
	})
}

func TestDispatcherAdjustCommentCount(t *testing.T) {
	db := setupTestDB(t)
	d := NewDispatcher(testLogger())
	ctx := context.Background()

	user := createUser(t, db, "alice")
	pub := createPublication(t, db, user.ID)

	t.Run("BatchIncrementAndDecrement", func(t *testing.T) {
		res, err := d.AdjustCommentCount(ctx, db, pub.ID, 5)
		assert.NoError(t, err)
		assert.Equal(t, AdjustApplied, res)

		res, err = d.AdjustCommentCount(ctx, db, pub.ID, -3)
		assert.NoError(t, err)
		assert.Equal(t, AdjustApplied, res)

		var p models.Publication
		require.NoError(t, db.First(&p, pub.ID).Error)
		assert.Equal(t, int64(2), p.CommentCount)
	})

	t.Run("BatchDecrementClampsToZero", func(t *testing.T) {
		// Counter is 2; a batch decrement of 5 would underflow.
		res, err := d.AdjustCommentCount(ctx, db, pub.ID, -5)
		assert.NoError(t, err)
		assert.Equal(t, AdjustClamped, res)

		var p models.Publication
		require.NoError(t, db.First(&p, pub.ID).Error)
		assert.Equal(t, int64(0), p.CommentCount)
	})

	t.Run("MissingPublication", func(t *testing.T) {
		res, err := d.AdjustCommentCount(ctx, db, 99999, -1)
		assert.NoError(t, err)
		assert.Equal(t, AdjustTargetMissing, res)
	})
}

func TestClampWarningCarriesCorrelationID(t *testing.T) {
	db := setupTestDB(t)

	var buf bytes.Buffer
	d := NewDispatcher(slog.New(slog.NewJSONHandler(&buf, nil)))

	user := createUser(t, db, "alice")
	pub := createPublication(t, db, user.ID)

	ctx := observability.WithCorrelationID(context.Background(), "req-abc123")
	res, err := d.AdjustLikeCount(ctx, db, models.TargetPublication, pub.ID, -1)
	require.NoError(t, err)
	require.Equal(t, AdjustClamped, res)

	assert.Contains(t, buf.String(), `"correlation_id":"req-abc123"`)
}

func TestDispatcherRegister(t *testing.T) {
	db := setupTestDB(t)
	d := NewDispatcher(testLogger())
	ctx := context.Background()

	user := createUser(t, db, "alice")
	pub := createPublication(t, db, user.ID)
	comment := createComment(t, db, pub.ID, user.ID, nil)

	// A newly registered alias routes to its own table without touching the
	// built-in targets.
	d.Register(models.TargetType("reply"), &models.Comment{}, "like_count")

	res, err := d.AdjustLikeCount(ctx, db, models.TargetType("reply"), comment.ID, 1)
	assert.NoError(t, err)
	assert.Equal(t, AdjustApplied, res)
	assert.Equal(t, int64(1), commentLikeCount(t, db, comment.ID))
	assert.Equal(t, int64(0), publicationLikeCount(t, db, pub.ID))
}
