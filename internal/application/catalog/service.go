package catalog

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-shop-api/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service interface {
	ListCategories(ctx context.Context, activeOnly bool, skip, limit int) ([]domain.CategoryWithCount, error)
	GetCategory(ctx context.Context, categoryID int64) (*domain.CategoryWithCount, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*domain.CategoryWithCount, error)
	CreateCategory(ctx context.Context, req domain.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, categoryID int64, req domain.UpdateCategoryRequest) (*domain.Category, error)
	DeleteCategory(ctx context.Context, categoryID int64) error

	ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error)
	GetProduct(ctx context.Context, productID int64) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error)
	UpdateProduct(ctx context.Context, productID int64, req domain.UpdateProductRequest) (*domain.Product, error)
	DeleteProduct(ctx context.Context, productID int64) error
	AddProductImage(ctx context.Context, productID int64, filename string, data io.Reader) (*domain.Product, error)
}

type categoryStore interface {
	Create(ctx context.Context, c *domain.Category) error
	Get(ctx context.Context, categoryID int64) (*domain.Category, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.Category, error)
	CountActiveProducts(ctx context.Context, categoryID int64) (int, error)
	HasProducts(ctx context.Context, categoryID int64) (bool, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, categoryID int64) error
}

type productStore interface {
	Create(ctx context.Context, p *domain.Product) error
	Get(ctx context.Context, productID int64) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	ListFiltered(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error)
	Featured(ctx context.Context, limit int) ([]domain.Product, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, productID int64) error
}

type mediaStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
}

type contentTyper func(filename string) string

type service struct {
	categories categoryStore
	products   productStore
	media      mediaStore
	typeOf     contentTyper
}

type ServiceDeps struct {
	CategoryRepo categoryStore
	ProductRepo  productStore
	// Media may be nil when object storage is unconfigured; image upload
	// then fails with ErrBadRequest.
	Media       mediaStore
	ContentType contentTyper
}

func NewService(deps ServiceDeps) Service {
	return &service{
		categories: deps.CategoryRepo,
		products:   deps.ProductRepo,
		media:      deps.Media,
		typeOf:     deps.ContentType,
	}
}

// --- categories ---

func (s *service) ListCategories(ctx context.Context, activeOnly bool, skip, limit int) ([]domain.CategoryWithCount, error) {
	if limit < 1 || limit > maxPageSize {
		limit = maxPageSize
	}
	if skip < 0 {
		skip = 0
	}
	categories, err := s.categories.List(ctx, activeOnly, limit, skip)
	if err != nil {
		return nil, err
	}
	out := make([]domain.CategoryWithCount, 0, len(categories))
	for _, c := range categories {
		n, err := s.categories.CountActiveProducts(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, domain.CategoryWithCount{Category: c, ProductCount: n})
	}
	return out, nil
}

func (s *service) GetCategory(ctx context.Context, categoryID int64) (*domain.CategoryWithCount, error) {
	c, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, c)
}

func (s *service) GetCategoryBySlug(ctx context.Context, slug string) (*domain.CategoryWithCount, error) {
	c, err := s.categories.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.withCount(ctx, c)
}

func (s *service) withCount(ctx context.Context, c *domain.Category) (*domain.CategoryWithCount, error) {
	n, err := s.categories.CountActiveProducts(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &domain.CategoryWithCount{Category: *c, ProductCount: n}, nil
}

func (s *service) CreateCategory(ctx context.Context, req domain.CategoryInput) (*domain.Category, error) {
	if _, err := s.categories.GetBySlug(ctx, req.Slug); err == nil {
		return nil, fmt.Errorf("category slug already exists: %w", domain.ErrConflict)
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	c := &domain.Category{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    active,
	}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) UpdateCategory(ctx context.Context, categoryID int64, req domain.UpdateCategoryRequest) (*domain.Category, error) {
	c, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if req.Slug != nil && *req.Slug != c.Slug {
		if _, err := s.categories.GetBySlug(ctx, *req.Slug); err == nil {
			return nil, fmt.Errorf("category slug already exists: %w", domain.ErrConflict)
		}
		c.Slug = *req.Slug
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory refuses to delete a category that still has products,
// active or not, so order history never dangles.
func (s *service) DeleteCategory(ctx context.Context, categoryID int64) error {
	has, err := s.categories.HasProducts(ctx, categoryID)
	if err != nil {
		return err
	}
	if has {
		return fmt.Errorf("category still has products: %w", domain.ErrConflict)
	}
	return s.categories.Delete(ctx, categoryID)
}

// --- products ---

func (s *service) ListProducts(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = defaultPageSize
	}
	if f.PageSize > maxPageSize {
		f.PageSize = maxPageSize
	}
	return s.products.ListFiltered(ctx, f)
}

func (s *service) FeaturedProducts(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	return s.products.Featured(ctx, limit)
}

func (s *service) GetProduct(ctx context.Context, productID int64) (*domain.Product, error) {
	return s.products.Get(ctx, productID)
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

func (s *service) CreateProduct(ctx context.Context, req domain.CreateProductRequest) (*domain.Product, error) {
	if _, err := s.products.GetBySlug(ctx, req.Slug); err == nil {
		return nil, fmt.Errorf("product slug already exists: %w", domain.ErrConflict)
	}
	if req.SKU != nil {
		if _, err := s.products.GetBySKU(ctx, *req.SKU); err == nil {
			return nil, fmt.Errorf("product sku already exists: %w", domain.ErrConflict)
		}
	}
	if req.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("category does not exist: %w", domain.ErrBadRequest)
		}
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}
	p := &domain.Product{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		SKU:         req.SKU,
		PriceUSD:    req.PriceUSD,
		PricePLN:    req.PricePLN,
		PriceEUR:    req.PriceEUR,
		Stock:       req.Stock,
		IsActive:    active,
		IsFeatured:  req.IsFeatured,
		Images:      images,
		CategoryID:  req.CategoryID,
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdateProduct(ctx context.Context, productID int64, req domain.UpdateProductRequest) (*domain.Product, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if req.Slug != nil && *req.Slug != p.Slug {
		if _, err := s.products.GetBySlug(ctx, *req.Slug); err == nil {
			return nil, fmt.Errorf("product slug already exists: %w", domain.ErrConflict)
		}
		p.Slug = *req.Slug
	}
	if req.SKU != nil && (p.SKU == nil || *req.SKU != *p.SKU) {
		if _, err := s.products.GetBySKU(ctx, *req.SKU); err == nil {
			return nil, fmt.Errorf("product sku already exists: %w", domain.ErrConflict)
		}
		p.SKU = req.SKU
	}
	if req.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *req.CategoryID); err != nil {
			return nil, fmt.Errorf("category does not exist: %w", domain.ErrBadRequest)
		}
		p.CategoryID = req.CategoryID
	}
	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.PriceUSD != nil {
		p.PriceUSD = *req.PriceUSD
	}
	if req.PricePLN != nil {
		p.PricePLN = *req.PricePLN
	}
	if req.PriceEUR != nil {
		p.PriceEUR = *req.PriceEUR
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsFeatured != nil {
		p.IsFeatured = *req.IsFeatured
	}
	if req.Images != nil {
		p.Images = req.Images
	}
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeleteProduct(ctx context.Context, productID int64) error {
	return s.products.Delete(ctx, productID)
}

// AddProductImage uploads an image to object storage and appends its public
// URL to the product's image list.
func (s *service) AddProductImage(ctx context.Context, productID int64, filename string, data io.Reader) (*domain.Product, error) {
	if s.media == nil {
		return nil, fmt.Errorf("media storage is not configured: %w", domain.ErrBadRequest)
	}
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	key := fmt.Sprintf("products/%d/%d-%s", productID, time.Now().UnixNano(), filename)
	url, err := s.media.Upload(ctx, key, data, s.typeOf(filename))
	if err != nil {
		return nil, err
	}
	p.Images = append(p.Images, url)
	if err := s.products.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
