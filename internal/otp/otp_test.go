package otp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artezaar-backend/internal/models"
)

type fakeSender struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to   string
	code string
	ttl  time.Duration
}

func (f *fakeSender) SendOTP(ctx context.Context, to string, code string, ttl time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, code: code, ttl: ttl})
	return nil
}

type failingStore struct {
	err error
}

func (f *failingStore) Insert(ctx context.Context, rec *models.OTP) error { return f.err }
func (f *failingStore) LatestForEmail(ctx context.Context, email string) (*models.OTP, error) {
	return nil, &StorageError{Op: "select", Err: f.err}
}
func (f *failingStore) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, f.err
}

func TestIssueCreatesRecord(t *testing.T) {
	store := NewMemoryStore()
	sender := &fakeSender{}
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	issuer := NewIssuer(store, sender, 5*time.Minute)
	issuer.now = func() time.Time { return base }

	rec, err := issuer.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", rec.Email)
	assert.Len(t, rec.Code, 6)
	for _, r := range rec.Code {
		assert.True(t, r >= '0' && r <= '9', "code must be numeric")
	}
	assert.Equal(t, base.Add(5*time.Minute), rec.ExpiresAt)
	assert.NotEqual(t, rec.ID.String(), "00000000-0000-0000-0000-000000000000")

	assert.Equal(t, 1, store.Count())
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@b.com", sender.sent[0].to)
	assert.Equal(t, rec.Code, sender.sent[0].code)
}

func TestIssueRejectsEmptyEmail(t *testing.T) {
	issuer := NewIssuer(NewMemoryStore(), &fakeSender{}, 0)

	_, err := issuer.Issue(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmailRequired)
}

func TestIssueStorageFailureAbortsBeforeSend(t *testing.T) {
	sender := &fakeSender{}
	issuer := NewIssuer(&failingStore{err: errors.New("insert refused")}, sender, 0)

	_, err := issuer.Issue(context.Background(), "a@b.com")

	var storeErr *StorageError
	require.ErrorAs(t, err, &storeErr)
	assert.Empty(t, sender.sent, "no mail may go out when the record was not stored")
}

func TestIssueDeliveryFailureKeepsRecord(t *testing.T) {
	store := NewMemoryStore()
	sender := &fakeSender{err: errors.New("provider down")}
	issuer := NewIssuer(store, sender, 0)

	rec, err := issuer.Issue(context.Background(), "a@b.com")

	var sendErr *DeliveryError
	require.ErrorAs(t, err, &sendErr)
	require.NotNil(t, rec)
	assert.Equal(t, 1, store.Count(), "the stored code outlives the failed delivery")

	// The undelivered code still verifies.
	verifier := NewVerifier(store)
	assert.NoError(t, verifier.Verify(context.Background(), "a@b.com", rec.Code))
}

func TestVerifyRequiresBothFields(t *testing.T) {
	verifier := NewVerifier(NewMemoryStore())

	assert.ErrorIs(t, verifier.Verify(context.Background(), "", "482913"), ErrFieldsRequired)
	assert.ErrorIs(t, verifier.Verify(context.Background(), "a@b.com", ""), ErrFieldsRequired)
}

func TestVerifyNoRecord(t *testing.T) {
	verifier := NewVerifier(NewMemoryStore())

	err := verifier.Verify(context.Background(), "nobody@b.com", "482913")
	assert.ErrorIs(t, err, ErrNoRecord)
}

func TestVerifyScenario(t *testing.T) {
	// Code "482913" issued at t=0, expiry t=300s.
	store := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Insert(context.Background(), &models.OTP{
		Email:     "a@b.com",
		Code:      "482913",
		ExpiresAt: base.Add(300 * time.Second),
	}))

	verifier := NewVerifier(store)

	verifier.now = func() time.Time { return base.Add(100 * time.Second) }
	assert.NoError(t, verifier.Verify(context.Background(), "a@b.com", "482913"))
	assert.ErrorIs(t, verifier.Verify(context.Background(), "a@b.com", "000000"), ErrMismatch)

	verifier.now = func() time.Time { return base.Add(400 * time.Second) }
	assert.ErrorIs(t, verifier.Verify(context.Background(), "a@b.com", "482913"), ErrExpired)
}

func TestVerifyWrongCodeFailsEvenWhenExpired(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Insert(context.Background(), &models.OTP{
		Email:     "a@b.com",
		Code:      "482913",
		ExpiresAt: base.Add(5 * time.Minute),
	}))

	verifier := NewVerifier(store)
	verifier.now = func() time.Time { return base.Add(time.Hour) }

	// Mismatch wins over expiry.
	assert.ErrorIs(t, verifier.Verify(context.Background(), "a@b.com", "000000"), ErrMismatch)
}

func TestVerifyAtExactExpiryFails(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, store.Insert(context.Background(), &models.OTP{
		Email:     "a@b.com",
		Code:      "482913",
		ExpiresAt: base.Add(5 * time.Minute),
	}))

	verifier := NewVerifier(store)
	verifier.now = func() time.Time { return base.Add(5 * time.Minute) }

	assert.ErrorIs(t, verifier.Verify(context.Background(), "a@b.com", "482913"), ErrExpired)
}

func TestVerifyReplayIsAccepted(t *testing.T) {
	// Codes are not consumed on success: the same correct code keeps
	// verifying until it expires.
	store := NewMemoryStore()
	sender := &fakeSender{}
	issuer := NewIssuer(store, sender, 5*time.Minute)

	rec, err := issuer.Issue(context.Background(), "a@b.com")
	require.NoError(t, err)

	verifier := NewVerifier(store)
	assert.NoError(t, verifier.Verify(context.Background(), "a@b.com", rec.Code))
	assert.NoError(t, verifier.Verify(context.Background(), "a@b.com", rec.Code))
}

func TestNewerCodeSupersedesOlder(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// Code A at t=0, code B a minute later. Both are still unexpired.
	require.NoError(t, store.Insert(context.Background(), &models.OTP{
		Email:     "a@b.com",
		Code:      "111111",
		ExpiresAt: base.Add(5 * time.Minute),
	}))
	require.NoError(t, store.Insert(context.Background(), &models.OTP{
		Email:     "a@b.com",
		Code:      "222222",
		ExpiresAt: base.Add(6 * time.Minute),
	}))

	verifier := NewVerifier(store)
	verifier.now = func() time.Time { return base.Add(2 * time.Minute) }

	// Only the most recent code is ever compared.
	assert.ErrorIs(t, verifier.Verify(context.Background(), "a@b.com", "111111"), ErrMismatch)
	assert.NoError(t, verifier.Verify(context.Background(), "a@b.com", "222222"))
}

func TestMemoryStoreDeleteExpiredBefore(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Insert(context.Background(), &models.OTP{Email: "a@b.com", Code: "111111", ExpiresAt: base.Add(-time.Hour)}))
	require.NoError(t, store.Insert(context.Background(), &models.OTP{Email: "a@b.com", Code: "222222", ExpiresAt: base.Add(time.Hour)}))

	removed, err := store.DeleteExpiredBefore(context.Background(), base)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, store.Count())

	rec, err := store.LatestForEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "222222", rec.Code)
}
