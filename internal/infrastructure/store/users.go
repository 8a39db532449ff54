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

// UserRepo persists user accounts.
type UserRepo struct {
	db *bun.DB
}

func NewUserRepo(db *bun.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(u).Exec(ctx); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) Get(ctx context.Context, userID int64) (*domain.User, error) {
	u := new(domain.User)
	err := r.db.NewSelect().Model(u).Where("u.id = ?", userID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := new(domain.User)
	err := r.db.NewSelect().Model(u).Where("u.email = ?", email).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user by email: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update writes all mutable columns of u back to the store.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()
	res, err := r.db.NewUpdate().Model(u).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", u.ID, domain.ErrNotFound)
	}
	return nil
}

// MarkVerified flips is_verified to true. The transition is one-way; callers
// guard against re-verification at the service level.
func (r *UserRepo) MarkVerified(ctx context.Context, userID int64) error {
	res, err := r.db.NewUpdate().Model((*domain.User)(nil)).
		Set("is_verified = ?", true).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", userID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %d: %w", userID, domain.ErrNotFound)
	}
	return nil
}

// List returns a page of users plus the total count.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	var users []domain.User
	total, err := r.db.NewSelect().Model(&users).
		Order("id ASC").
		Limit(limit).
		Offset(offset).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

// DeleteUnverifiedBefore removes unverified accounts created before cutoff.
// Verification tokens cascade.
func (r *UserRepo) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.NewDelete().Model((*domain.User)(nil)).
		Where("is_verified = ?", false).
		Where("created_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete unverified users: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
