package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-shop-api/internal/domain"
	"github.com/uptrace/bun"
)

// VerificationRepo persists single-use email verification tokens.
type VerificationRepo struct {
	db *bun.DB
}

func NewVerificationRepo(db *bun.DB) *VerificationRepo {
	return &VerificationRepo{db: db}
}

func (r *VerificationRepo) Create(ctx context.Context, vt *domain.VerificationToken) error {
	vt.CreatedAt = time.Now().UTC()
	if _, err := r.db.NewInsert().Model(vt).Exec(ctx); err != nil {
		return fmt.Errorf("insert verification token: %w", err)
	}
	return nil
}

func (r *VerificationRepo) GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error) {
	vt := new(domain.VerificationToken)
	err := r.db.NewSelect().Model(vt).Where("vt.token = ?", token).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verification token: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return vt, nil
}

// DeleteByToken removes a token, reporting whether a row existed. Deleting an
// already-consumed token is not an error.
func (r *VerificationRepo) DeleteByToken(ctx context.Context, token string) (bool, error) {
	res, err := r.db.NewDelete().Model((*domain.VerificationToken)(nil)).
		Where("token = ?", token).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("delete verification token: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// DeleteByUser removes all outstanding tokens for a user and returns the count.
func (r *VerificationRepo) DeleteByUser(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.NewDelete().Model((*domain.VerificationToken)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete tokens for user %d: %w", userID, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DeleteExpired removes every token past its expiry at the given instant.
func (r *VerificationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.NewDelete().Model((*domain.VerificationToken)(nil)).
		Where("expires_at < ?", now).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
