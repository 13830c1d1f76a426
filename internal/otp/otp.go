package otp

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"artezaar-backend/internal/email"
	"artezaar-backend/internal/models"
	"artezaar-backend/internal/utils"
)

// DefaultTTL is the validity window of a freshly issued code.
const DefaultTTL = 5 * time.Minute

// Store persists issued codes. Only the most recent row per email is ever
// consulted at verification time.
type Store interface {
	Insert(ctx context.Context, rec *models.OTP) error
	// LatestForEmail returns the record with the greatest expiry for the
	// email, or ErrNoRecord when none exists.
	LatestForEmail(ctx context.Context, email string) (*models.OTP, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Issuer creates a code, persists it, then emails it. Persisting comes
// first so a failed send still leaves a verifiable record behind.
type Issuer struct {
	store  Store
	sender email.Sender
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(store Store, sender email.Sender, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{store: store, sender: sender, ttl: ttl, now: time.Now}
}

func (i *Issuer) Issue(ctx context.Context, to string) (*models.OTP, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil, ErrEmailRequired
	}

	code, err := utils.GenerateOTP()
	if err != nil {
		return nil, err
	}

	rec := &models.OTP{
		ID:        uuid.New(),
		Email:     to,
		Code:      code,
		ExpiresAt: i.now().Add(i.ttl),
	}
	if err := i.store.Insert(ctx, rec); err != nil {
		return nil, &StorageError{Op: "insert", Err: err}
	}

	if err := i.sender.SendOTP(ctx, to, code, i.ttl); err != nil {
		return rec, &DeliveryError{Err: err}
	}
	return rec, nil
}

// Verifier checks a submitted code against the most recently issued one.
// Matching is pure comparison: a correct code stays replayable until it
// expires because nothing is consumed or deleted here.
type Verifier struct {
	store Store
	now   func() time.Time
}

func NewVerifier(store Store) *Verifier {
	return &Verifier{store: store, now: time.Now}
}

func (v *Verifier) Verify(ctx context.Context, to, code string) error {
	to = strings.TrimSpace(to)
	if to == "" || code == "" {
		return ErrFieldsRequired
	}

	rec, err := v.store.LatestForEmail(ctx, to)
	if err != nil {
		return err
	}
	if rec.Code != code {
		return ErrMismatch
	}
	if !v.now().Before(rec.ExpiresAt) {
		return ErrExpired
	}
	return nil
}
