package user

import (
	"context"
	"time"

	"github.com/go-shop-api/internal/domain"
)

type Service interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, req domain.UpdateProfileRequest) (*domain.User, error)
	List(ctx context.Context, page, perPage int) ([]domain.User, int, error)
	PurgeUnverified(ctx context.Context, olderThan time.Duration) (int64, error)
}

type userStore interface {
	Get(ctx context.Context, userID int64) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type service struct {
	repo userStore
}

func NewService(repo userStore) Service {
	return &service{repo: repo}
}

func (s *service) Get(ctx context.Context, userID int64) (*domain.User, error) {
	return s.repo.Get(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req to the user's profile.
// Email, role and the security flags are not reachable from here.
func (s *service) UpdateProfile(ctx context.Context, userID int64, req domain.UpdateProfileRequest) (*domain.User, error) {
	u, err := s.repo.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Phone != nil {
		u.Phone = *req.Phone
	}
	if req.ShippingStreet != nil {
		u.ShippingStreet = req.ShippingStreet
	}
	if req.ShippingCity != nil {
		u.ShippingCity = req.ShippingCity
	}
	if req.ShippingPostalCode != nil {
		u.ShippingPostalCode = req.ShippingPostalCode
	}
	if req.ShippingCountry != nil {
		u.ShippingCountry = req.ShippingCountry
	}
	if req.ShippingState != nil {
		u.ShippingState = req.ShippingState
	}
	if req.CompanyName != nil {
		u.CompanyName = req.CompanyName
	}
	if req.CompanyTaxID != nil {
		u.CompanyTaxID = req.CompanyTaxID
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) List(ctx context.Context, page, perPage int) ([]domain.User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	if perPage > 100 {
		perPage = 100
	}
	return s.repo.List(ctx, perPage, (page-1)*perPage)
}

// PurgeUnverified removes accounts that never completed verification within
// the grace window. Maintenance path only.
func (s *service) PurgeUnverified(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	return s.repo.DeleteUnverifiedBefore(ctx, cutoff)
}
