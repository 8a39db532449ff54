package http

import (
	"context"
	"io"
	"time"

	"github.com/go-shop-api/internal/domain"
)

// UserRepository is the minimal interface the router requires from a user store.
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Get(ctx context.Context, userID int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	MarkVerified(ctx context.Context, userID int64) error
	Update(ctx context.Context, u *domain.User) error
	List(ctx context.Context, limit, offset int) ([]domain.User, int, error)
	DeleteUnverifiedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// VerificationRepository is the minimal interface the router requires from a
// verification-token store.
type VerificationRepository interface {
	Create(ctx context.Context, t *domain.VerificationToken) error
	GetByToken(ctx context.Context, token string) (*domain.VerificationToken, error)
	DeleteByToken(ctx context.Context, token string) (bool, error)
	DeleteByUser(ctx context.Context, userID int64) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// CategoryRepository is the minimal interface the router requires from a category store.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	Get(ctx context.Context, categoryID int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.Category, error)
	CountActiveProducts(ctx context.Context, categoryID int64) (int, error)
	HasProducts(ctx context.Context, categoryID int64) (bool, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, categoryID int64) error
}

// ProductRepository is the minimal interface the router requires from a product store.
type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	ListFiltered(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	DecrementStock(ctx context.Context, productID int64, qty int) error
	IncrementStock(ctx context.Context, productID int64, qty int) error
	Delete(ctx context.Context, productID int64) error
}

// OrderRepository is the minimal interface the router requires from an order store.
type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	Get(ctx context.Context, orderID int64) (*domain.Order, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]domain.Order, int, error)
	List(ctx context.Context, limit, offset int) ([]domain.Order, int, error)
	UpdateStatus(ctx context.Context, orderID int64, status string) error
}

// ObjectStore is the minimal interface the router requires from an object storage backend.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
