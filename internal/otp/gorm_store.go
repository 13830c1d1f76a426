package otp

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"artezaar-backend/internal/models"
)

// GormStore keeps OTP rows in the application database.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Insert(ctx context.Context, rec *models.OTP) error {
	return s.db.WithContext(ctx).Create(rec).Error
}

func (s *GormStore) LatestForEmail(ctx context.Context, email string) (*models.OTP, error) {
	var rec models.OTP
	err := s.db.WithContext(ctx).
		Where("email = ?", email).
		Order("expires_at desc").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, &StorageError{Op: "select", Err: err}
	}
	return &rec, nil
}

func (s *GormStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("expires_at < ?", cutoff).Delete(&models.OTP{})
	if res.Error != nil {
		return 0, &StorageError{Op: "delete", Err: res.Error}
	}
	return res.RowsAffected, nil
}
