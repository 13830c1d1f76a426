package otp

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"artezaar-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(&models.OTP{}))
	return database
}

func TestGormStoreInsertAndLatest(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, &models.OTP{Email: "a@b.com", Code: "111111", ExpiresAt: base.Add(5 * time.Minute)}))
	require.NoError(t, store.Insert(ctx, &models.OTP{Email: "a@b.com", Code: "222222", ExpiresAt: base.Add(6 * time.Minute)}))
	require.NoError(t, store.Insert(ctx, &models.OTP{Email: "other@b.com", Code: "333333", ExpiresAt: base.Add(7 * time.Minute)}))

	rec, err := store.LatestForEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", rec.Code, "lookup must return the row with the greatest expiry")
	assert.NotEmpty(t, rec.ID)
}

func TestGormStoreLatestNoRecord(t *testing.T) {
	store := NewGormStore(newTestDB(t))

	_, err := store.LatestForEmail(context.Background(), "nobody@b.com")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestGormStoreDeleteExpiredBefore(t *testing.T) {
	store := NewGormStore(newTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(ctx, &models.OTP{Email: "a@b.com", Code: "111111", ExpiresAt: base.Add(-2 * time.Hour)}))
	require.NoError(t, store.Insert(ctx, &models.OTP{Email: "a@b.com", Code: "222222", ExpiresAt: base.Add(-time.Minute)}))
	require.NoError(t, store.Insert(ctx, &models.OTP{Email: "a@b.com", Code: "333333", ExpiresAt: base.Add(time.Hour)}))

	removed, err := store.DeleteExpiredBefore(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	rec, err := store.LatestForEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "333333", rec.Code)
}
