package user

import (
	"context"
	"testing"
	"time"

	"github.com/go-shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserStore struct{ mock.Mock }

func (m *mockUserStore) Get(ctx context.Context, userID int64) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockUserStore) Update(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}
func (m *mockUserStore) List(ctx context.Context, limit, offset int) ([]domain.User, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}
func (m *mockUserStore) DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile_AppliesOnlyProvidedFields(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, int64(7)).Return(&domain.User{
		ID:        7,
		Email:     "jane@example.com",
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "111",
	}, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

	svc := NewService(repo)
	u, err := svc.UpdateProfile(context.Background(), 7, domain.UpdateProfileRequest{
		FirstName:    strPtr("Janet"),
		ShippingCity: strPtr("Warsaw"),
	})

	require.NoError(t, err)
	assert.Equal(t, "Janet", u.FirstName)
	assert.Equal(t, "Doe", u.LastName)
	assert.Equal(t, "111", u.Phone)
	require.NotNil(t, u.ShippingCity)
	assert.Equal(t, "Warsaw", *u.ShippingCity)
	assert.Equal(t, "jane@example.com", u.Email)
}

func TestUpdateProfile_UnknownUser(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("Get", mock.Anything, int64(999)).Return(nil, domain.ErrNotFound)

	svc := NewService(repo)
	_, err := svc.UpdateProfile(context.Background(), 999, domain.UpdateProfileRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestList_NormalizesPagination(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("List", mock.Anything, 50, 0).Return([]domain.User{}, 0, nil)

	svc := NewService(repo)
	_, _, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestList_CapsPerPage(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("List", mock.Anything, 100, 100).Return([]domain.User{}, 0, nil)

	svc := NewService(repo)
	_, _, err := svc.List(context.Background(), 2, 500)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestPurgeUnverified_UsesCutoffInThePast(t *testing.T) {
	repo := &mockUserStore{}
	repo.On("DeleteUnverifiedBefore", mock.Anything, mock.MatchedBy(func(cutoff time.Time) bool {
		return cutoff.Before(time.Now().UTC())
	})).Return(int64(3), nil)

	svc := NewService(repo)
	n, err := svc.PurgeUnverified(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
