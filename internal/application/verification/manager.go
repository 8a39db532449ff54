package verification

import (
	"context"
	"fmt"
	"time"

	"github.com/go-shop-api/internal/domain"
	"github.com/google/uuid"
)

// DefaultTTL is how long a verification token stays redeemable.
const DefaultTTL = 24 * time.Hour

type tokenStore interface {
	Create(ctx context.Context, vt *domain.VerificationToken) error
	GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// Manager owns the verification token lifecycle: issuance, validation,
// single-use consumption and expiry sweeps.
type Manager struct {
	store tokenStore
	ttl   time.Duration
}

func NewManager(store tokenStore, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// CreateForUser issues a fresh opaque token for the user, valid for the
// configured TTL. The token string is a UUID, unguessable and unique.
func (m *Manager) CreateForUser(ctx context.Context, userID int64) (*domain.VerificationToken, error) {
	vt := &domain.VerificationToken{
		Token:     uuid.NewString(),
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(m.ttl),
	}
	if err := m.store.Create(ctx, vt); err != nil {
		return nil, err
	}
	return vt, nil
}

func (m *Manager) GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error) {
	return m.store.GetByToken(ctx, token)
}

// Validate resolves a token string to its record. Unknown tokens fail with
// ErrInvalidToken, known-but-expired tokens with ErrTokenExpired.
func (m *Manager) Validate(ctx context.Context, token string) (*domain.VerificationToken, error) {
	vt, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("verification token not found: %w", domain.ErrInvalidToken)
	}
	if vt.Expired(time.Now().UTC()) {
		return nil, fmt.Errorf("verification token past expiry: %w", domain.ErrTokenExpired)
	}
	return vt, nil
}

// DeleteByToken consumes a token. Consuming a token that is already gone is
// not an error.
func (m *Manager) DeleteByToken(ctx context.Context, token string) (bool, error) {
	return m.store.DeleteByToken(ctx, token)
}

// DeleteByUser invalidates every outstanding token for a user, returning the
// number removed. Called before reissuing on resend.
func (m *Manager) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	return m.store.DeleteByUser(ctx, userID)
}

// CleanupExpired sweeps tokens past their expiry. Intended for a periodic
// job, never a request path.
func (m *Manager) CleanupExpired(ctx context.Context) (int64, error) {
	return m.store.DeleteExpired(ctx, time.Now().UTC())
}
