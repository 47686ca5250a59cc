package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"bazaar/internal/database"
	"bazaar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))
	return db
}

// seedLike writes a like with an explicit timestamp so ordering assertions
// do not depend on insertion speed.
func seedLike(t *testing.T, db *gorm.DB, userID, targetID uint, target models.TargetType, at time.Time) {
	t.Helper()
	like := &models.Like{UserID: userID, TargetID: targetID, TargetType: target, CreatedAt: at}
	require.NoError(t, db.Create(like).Error)
}

func TestLikeRepositoryListForTargetNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := uint(1); i <= 5; i++ {
		user := &models.User{Username: fmt.Sprintf("u%d", i), Email: fmt.Sprintf("u%d@example.com", i), Password: "hashed"}
		require.NoError(t, db.Create(user).Error)
		seedLike(t, db, user.ID, 10, models.TargetPublication, base.Add(time.Duration(i)*time.Minute))
	}
	// A like on a different target must never leak into the listing.
	seedLike(t, db, 1, 11, models.TargetPublication, base.Add(time.Hour))
	seedLike(t, db, 1, 10, models.TargetComment, base.Add(time.Hour))

	likes, err := repo.ListForTarget(ctx, 10, models.TargetPublication, 10, 0)
	require.NoError(t, err)
	require.Len(t, likes, 5)
	for i := 1; i < len(likes); i++ {
		assert.False(t, likes[i].CreatedAt.After(likes[i-1].CreatedAt),
			"likes must be ordered newest first")
	}
	assert.Equal(t, uint(5), likes[0].UserID)
	assert.Equal(t, uint(1), likes[4].UserID)
}

func TestLikeRepositoryListForUserPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewLikeRepository(db)
	ctx := context.Background()

	user := &models.User{Username: "pager", Email: "pager@example.com", Password: "hashed"}
	require.NoError(t, db.Create(user).Error)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := uint(1); i <= 7; i++ {
		seedLike(t, db, user.ID, 100+i, models.TargetPublication, base.Add(time.Duration(i)*time.Minute))
	}
	// Another user's likes stay out of the listing.
	other := &models.User{Username: "other", Email: "other@example.com", Password: "hashed"}
	require.NoError(t, db.Create(other).Error)
	seedLike(t, db, other.ID, 101, models.TargetPublication, base.Add(time.Hour))

	// Walk the history in pages of 3; restarting from any offset must
	// continue exactly where the previous page stopped.
	var collected []uint
	for offset := 0; ; offset += 3 {
		page, err := repo.ListForUser(ctx, user.ID, 3, offset)
		require.NoError(t, err)
		if len(page) == 0 {
			break
		}
		for _, like := range page {
			collected = append(collected, like.TargetID)
		}
	}

	require.Len(t, collected, 7)
	assert.Equal(t, []uint{107, 106, 105, 104, 103, 102, 101}, collected)

	// Re-reading a middle page returns the same slice of history.
	again, err := repo.ListForUser(ctx, user.ID, 3, 3)
	require.NoError(t, err)
	require.Len(t, again, 3)
	assert.Equal(t, []uint{104, 103, 102}, []uint{again[0].TargetID, again[1].TargetID, again[2].TargetID})
}
