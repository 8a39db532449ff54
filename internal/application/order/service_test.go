package order

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/go-shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockOrderStore struct{ mock.Mock }

func (m *mockOrderStore) Create(ctx context.Context, o *domain.Order) error {
	return m.Called(ctx, o).Error(0)
}
func (m *mockOrderStore) Get(ctx context.Context, orderID int64) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if o, _ := args.Get(0).(*domain.Order); o != nil {
		return o, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockOrderStore) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}
func (m *mockOrderStore) List(ctx context.Context, limit, offset int) ([]domain.Order, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}
func (m *mockOrderStore) UpdateStatus(ctx context.Context, orderID int64, status string) error {
	return m.Called(ctx, orderID, status).Error(0)
}

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Get(ctx context.Context, productID int64) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) DecrementStock(ctx context.Context, productID int64, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}
func (m *mockProductStore) IncrementStock(ctx context.Context, productID int64, qty int) error {
	return m.Called(ctx, productID, qty).Error(0)
}

func beans(id int64) *domain.Product {
	return &domain.Product{
		ID: id, Name: "Beans", Slug: "beans",
		PriceUSD: 12, PricePLN: 48, PriceEUR: 11,
		Stock: 10, IsActive: true,
	}
}

func orderReq(items ...domain.OrderItemInput) domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		Items:              items,
		Currency:           "USD",
		ShippingAddress:    "1 Main St",
		ShippingCity:       "Springfield",
		ShippingPostalCode: "12345",
		ShippingCountry:    "US",
	}
}

// --- Create ---

func TestCreate_SnapshotsPriceInRequestedCurrency(t *testing.T) {
	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, int64(1)).Return(beans(1), nil)
	ps.On("DecrementStock", mock.Anything, int64(1), 2).Return(nil)

	os := &mockOrderStore{}
	os.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	svc := NewService(os, ps)
	req := orderReq(domain.OrderItemInput{ProductID: 1, Quantity: 2})
	req.Currency = "pln"

	o, err := svc.Create(context.Background(), 7, req)
	require.NoError(t, err)

	assert.Equal(t, "PLN", o.Currency)
	assert.Equal(t, domain.OrderStatusPending, o.Status)
	assert.True(t, strings.HasPrefix(o.OrderNumber, "ORD-"))
	require.Len(t, o.Items, 1)
	assert.Equal(t, 48.0, o.Items[0].UnitPrice)
	assert.Equal(t, 96.0, o.Items[0].TotalPrice)
	assert.Equal(t, 96.0, o.Subtotal)
	assert.Equal(t, int64(7), o.UserID)
}

func TestCreate_InactiveProduct(t *testing.T) {
	p := beans(1)
	p.IsActive = false

	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, int64(1)).Return(p, nil)

	svc := NewService(&mockOrderStore{}, ps)
	_, err := svc.Create(context.Background(), 7, orderReq(domain.OrderItemInput{ProductID: 1, Quantity: 1}))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	ps.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_InsufficientStock(t *testing.T) {
	p := beans(1)
	p.Stock = 1

	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, int64(1)).Return(p, nil)

	svc := NewService(&mockOrderStore{}, ps)
	_, err := svc.Create(context.Background(), 7, orderReq(domain.OrderItemInput{ProductID: 1, Quantity: 5}))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreate_ReleasesReservedStockWhenReservationFails(t *testing.T) {
	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, int64(1)).Return(beans(1), nil)
	ps.On("Get", mock.Anything, int64(2)).Return(beans(2), nil)
	ps.On("DecrementStock", mock.Anything, int64(1), 1).Return(nil)
	// Second reservation loses the race.
	ps.On("DecrementStock", mock.Anything, int64(2), 1).Return(domain.ErrConflict)
	ps.On("IncrementStock", mock.Anything, int64(1), 1).Return(nil)

	os := &mockOrderStore{}
	svc := NewService(os, ps)
	_, err := svc.Create(context.Background(), 7, orderReq(
		domain.OrderItemInput{ProductID: 1, Quantity: 1},
		domain.OrderItemInput{ProductID: 2, Quantity: 1},
	))

	assert.ErrorIs(t, err, domain.ErrConflict)
	ps.AssertExpectations(t)
	os.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_ReleasesStockWhenInsertFails(t *testing.T) {
	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, int64(1)).Return(beans(1), nil)
	ps.On("DecrementStock", mock.Anything, int64(1), 2).Return(nil)
	ps.On("IncrementStock", mock.Anything, int64(1), 2).Return(nil)

	os := &mockOrderStore{}
	os.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).
		Return(errors.New("db: disk full"))

	svc := NewService(os, ps)
	_, err := svc.Create(context.Background(), 7, orderReq(domain.OrderItemInput{ProductID: 1, Quantity: 2}))

	require.Error(t, err)
	ps.AssertExpectations(t)
}

// --- Get ---

func TestGet_OwnerAndAdminAllowed(t *testing.T) {
	os := &mockOrderStore{}
	os.On("Get", mock.Anything, int64(5)).Return(&domain.Order{ID: 5, UserID: 7}, nil)

	svc := NewService(os, &mockProductStore{})

	owner := &domain.User{ID: 7, Role: domain.RoleCustomer}
	admin := &domain.User{ID: 99, Role: domain.RoleAdmin}
	stranger := &domain.User{ID: 8, Role: domain.RoleCustomer}

	_, err := svc.Get(context.Background(), 5, owner)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), 5, admin)
	assert.NoError(t, err)

	_, err = svc.Get(context.Background(), 5, stranger)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// --- UpdateStatus ---

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	os := &mockOrderStore{}
	svc := NewService(os, &mockProductStore{})

	_, err := svc.UpdateStatus(context.Background(), 5, "teleported")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
	os.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateStatus_PersistsAndReloads(t *testing.T) {
	os := &mockOrderStore{}
	os.On("UpdateStatus", mock.Anything, int64(5), domain.OrderStatusShipped).Return(nil)
	os.On("Get", mock.Anything, int64(5)).
		Return(&domain.Order{ID: 5, Status: domain.OrderStatusShipped}, nil)

	svc := NewService(os, &mockProductStore{})
	o, err := svc.UpdateStatus(context.Background(), 5, domain.OrderStatusShipped)

	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusShipped, o.Status)
}
