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

// CategoryRepo persists product categories.
type CategoryRepo struct {
	db *bun.DB
}

func NewCategoryRepo(db *bun.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := r.db.NewInsert().Model(c).Exec(ctx); err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *CategoryRepo) Get(ctx context.Context, categoryID int64) (*domain.Category, error) {
	c := new(domain.Category)
	err := r.db.NewSelect().Model(c).Where("c.id = ?", categoryID).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", categoryID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *CategoryRepo) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	c := new(domain.Category)
	err := r.db.NewSelect().Model(c).Where("c.slug = ?", slug).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// List returns a page of categories, optionally restricted to active ones.
func (r *CategoryRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.Category, error) {
	var categories []domain.Category
	q := r.db.NewSelect().Model(&categories).Order("name ASC").Limit(limit).Offset(offset)
	if activeOnly {
		q = q.Where("c.is_active = ?", true)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// CountActiveProducts counts active products referencing the category.
func (r *CategoryRepo) CountActiveProducts(ctx context.Context, categoryID int64) (int, error) {
	n, err := r.db.NewSelect().Model((*domain.Product)(nil)).
		Where("p.category_id = ?", categoryID).
		Where("p.is_active = ?", true).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products for category %d: %w", categoryID, err)
	}
	return n, nil
}

// HasProducts reports whether any product (active or not) references the category.
func (r *CategoryRepo) HasProducts(ctx context.Context, categoryID int64) (bool, error) {
	return r.db.NewSelect().Model((*domain.Product)(nil)).
		Where("p.category_id = ?", categoryID).
		Exists(ctx)
}

func (r *CategoryRepo) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.db.NewUpdate().Model(c).WherePK().Exec(ctx)
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *CategoryRepo) Delete(ctx context.Context, categoryID int64) error {
	res, err := r.db.NewDelete().Model((*domain.Category)(nil)).
		Where("id = ?", categoryID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %d: %w", categoryID, domain.ErrNotFound)
	}
	return nil
}
