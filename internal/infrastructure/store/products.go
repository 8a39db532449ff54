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

// ProductRepo persists catalog products.
type ProductRepo struct {
	db *bun.DB
}

func NewProductRepo(db *bun.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(p).Exec(ctx); err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *ProductRepo) Get(ctx context.Context, productID int64) (*domain.Product, error) {
	p := new(domain.Product)
	err := r.db.NewSelect().Model(p).
		Relation("Category").
		Where("p.id = ?", productID).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p := new(domain.Product)
	err := r.db.NewSelect().Model(p).
		Relation("Category").
		Where("p.slug = ?", slug).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %q: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	p := new(domain.Product)
	err := r.db.NewSelect().Model(p).Where("p.sku = ?", sku).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product sku %q: %w", sku, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListFiltered returns a page of products matching the filter plus the total
// match count. Price bounds apply to the USD price.
func (r *ProductRepo) ListFiltered(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	var products []domain.Product
	q := r.db.NewSelect().Model(&products).Relation("Category")

	if f.CategoryID != nil {
		q = q.Where("p.category_id = ?", *f.CategoryID)
	}
	if f.IsActive != nil {
		q = q.Where("p.is_active = ?", *f.IsActive)
	}
	if f.IsFeatured != nil {
		q = q.Where("p.is_featured = ?", *f.IsFeatured)
	}
	if f.MinPrice != nil {
		q = q.Where("p.price_usd >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("p.price_usd <= ?", *f.MaxPrice)
	}
	if f.InStock != nil {
		if *f.InStock {
			q = q.Where("p.stock > 0")
		} else {
			q = q.Where("p.stock <= 0")
		}
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("p.name LIKE ?", pattern).WhereOr("p.description LIKE ?", pattern)
		})
	}

	total, err := q.Order("p.id ASC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		ScanAndCount(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

// Featured returns up to limit active featured products.
func (r *ProductRepo) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.NewSelect().Model(&products).
		Where("p.is_featured = ?", true).
		Where("p.is_active = ?", true).
		Order("p.id ASC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	return products, nil
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.db.NewUpdate().Model(p).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

// DecrementStock atomically reduces stock by qty, failing with ErrConflict
// when the remaining stock is insufficient.
func (r *ProductRepo) DecrementStock(ctx context.Context, productID int64, qty int) error {
	res, err := r.db.NewUpdate().Model((*domain.Product)(nil)).
		Set("stock = stock - ?", qty).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", productID).
		Where("stock >= ?", qty).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("insufficient stock for product %d: %w", productID, domain.ErrConflict)
	}
	return nil
}

// IncrementStock hands reserved stock back after a failed order placement.
func (r *ProductRepo) IncrementStock(ctx context.Context, productID int64, qty int) error {
	res, err := r.db.NewUpdate().Model((*domain.Product)(nil)).
		Set("stock = stock + ?", qty).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", productID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	return nil
}

func (r *ProductRepo) Delete(ctx context.Context, productID int64) error {
	res, err := r.db.NewDelete().Model((*domain.Product)(nil)).
		Where("id = ?", productID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", productID, domain.ErrNotFound)
	}
	return nil
}
