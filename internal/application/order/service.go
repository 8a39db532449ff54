package order

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-shop-api/internal/domain"
	"github.com/go-shop-api/internal/pkg/id"
)

type Service interface {
	Create(ctx context.Context, userID int64, req domain.CreateOrderRequest) (*domain.Order, error)
	Get(ctx context.Context, orderID int64, requester *domain.User) (*domain.Order, error)
	ListMine(ctx context.Context, userID int64, page, perPage int) ([]domain.Order, int, error)
	ListAll(ctx context.Context, page, perPage int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error)
}

type orderStore interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

type productStore interface {
	Get(ctx context.Context, productID int64) (*domain.Product, error)
	DecrementStock(ctx context.Context, productID int64, qty int) error
	IncrementStock(ctx context.Context, productID int64, qty int) error
}

type service struct {
	orders   orderStore
	products productStore
}

func NewService(orders orderStore, products productStore) Service {
	return &service{orders: orders, products: products}
}

// Create places an order: every item's product must be active and in stock.
// Unit prices are snapshotted in the requested currency at order time. Stock
// is reserved item by item through conditional decrements; when one fails,
// the already-taken stock is handed back before the error is returned.
func (s *service) Create(ctx context.Context, userID int64, req domain.CreateOrderRequest) (*domain.Order, error) {
	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = "USD"
	}

	var (
		items    []*domain.OrderItem
		subtotal float64
	)
	for _, in := range req.Items {
		p, err := s.products.Get(ctx, in.ProductID)
		if err != nil {
			return nil, err
		}
		if !p.IsActive {
			return nil, fmt.Errorf("product %q is not available: %w", p.Name, domain.ErrBadRequest)
		}
		if p.Stock < in.Quantity {
			return nil, fmt.Errorf("insufficient stock for product %q: %w", p.Name, domain.ErrConflict)
		}
		unit := p.Price(currency)
		items = append(items, &domain.OrderItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			ProductSKU:  p.SKU,
			Quantity:    in.Quantity,
			UnitPrice:   unit,
			TotalPrice:  unit * float64(in.Quantity),
		})
		subtotal += unit * float64(in.Quantity)
	}

	if err := s.reserveStock(ctx, items); err != nil {
		return nil, err
	}

	o := &domain.Order{
		UserID:             userID,
		OrderNumber:        id.NewOrderNumber(),
		Status:             domain.OrderStatusPending,
		Subtotal:           subtotal,
		Total:              subtotal,
		Currency:           currency,
		ShippingAddress:    req.ShippingAddress,
		ShippingCity:       req.ShippingCity,
		ShippingPostalCode: req.ShippingPostalCode,
		ShippingCountry:    req.ShippingCountry,
		Notes:              req.Notes,
		Items:              items,
	}
	if err := s.orders.Create(ctx, o); err != nil {
		s.releaseStock(ctx, items)
		return nil, err
	}
	return o, nil
}

func (s *service) reserveStock(ctx context.Context, items []*domain.OrderItem) error {
	for i, item := range items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			s.releaseStock(ctx, items[:i])
			return err
		}
	}
	return nil
}

func (s *service) releaseStock(ctx context.Context, items []*domain.OrderItem) {
	for _, item := range items {
		if err := s.products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			slog.Warn("failed to release reserved stock", "product_id", item.ProductID, "qty", item.Quantity, "err", err)
		}
	}
}

// Get returns the order when the requester owns it or is an admin.
func (s *service) Get(ctx context.Context, orderID int64, requester *domain.User) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != requester.ID && !requester.IsAdmin() {
		return nil, fmt.Errorf("order belongs to another user: %w", domain.ErrForbidden)
	}
	return o, nil
}

func (s *service) ListMine(ctx context.Context, userID int64, page, perPage int) ([]domain.Order, int, error) {
	page, perPage = normalizePage(page, perPage)
	return s.orders.ListByUser(ctx, userID, perPage, (page-1)*perPage)
}

func (s *service) ListAll(ctx context.Context, page, perPage int) ([]domain.Order, int, error) {
	page, perPage = normalizePage(page, perPage)
	return s.orders.List(ctx, perPage, (page-1)*perPage)
}

func (s *service) UpdateStatus(ctx context.Context, orderID int64, status string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, fmt.Errorf("unknown order status %q: %w", status, domain.ErrBadRequest)
	}
	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	return s.orders.Get(ctx, orderID)
}

func normalizePage(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	return page, perPage
}
