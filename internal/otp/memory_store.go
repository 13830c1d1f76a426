package otp

import (
	"context"
	"sync"
	"time"

	"artezaar-backend/internal/models"
)

// MemoryStore is an in-process Store for tests and local runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records []models.OTP
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Insert(ctx context.Context, rec *models.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, *rec)
	return nil
}

func (s *MemoryStore) LatestForEmail(ctx context.Context, email string) (*models.OTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var latest *models.OTP
	for i := range s.records {
		rec := &s.records[i]
		if rec.Email != email {
			continue
		}
		if latest == nil || rec.ExpiresAt.After(latest.ExpiresAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, ErrNoRecord
	}
	out := *latest
	return &out, nil
}

func (s *MemoryStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.records[:0]
	var removed int64
	for _, rec := range s.records {
		if rec.ExpiresAt.Before(cutoff) {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	return removed, nil
}

// Count reports how many records are held, for assertions in tests.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
