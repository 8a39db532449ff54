package catalog

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/go-shop-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockCategoryStore struct{ mock.Mock }

func (m *mockCategoryStore) Create(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCategoryStore) Get(ctx context.Context, categoryID int64) (*domain.Category, error) {
	args := m.Called(ctx, categoryID)
	if c, _ := args.Get(0).(*domain.Category); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCategoryStore) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	args := m.Called(ctx, slug)
	if c, _ := args.Get(0).(*domain.Category); c != nil {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockCategoryStore) List(ctx context.Context, activeOnly bool, limit, offset int) ([]domain.Category, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	return args.Get(0).([]domain.Category), args.Error(1)
}
func (m *mockCategoryStore) CountActiveProducts(ctx context.Context, categoryID int64) (int, error) {
	args := m.Called(ctx, categoryID)
	return args.Int(0), args.Error(1)
}
func (m *mockCategoryStore) HasProducts(ctx context.Context, categoryID int64) (bool, error) {
	args := m.Called(ctx, categoryID)
	return args.Bool(0), args.Error(1)
}
func (m *mockCategoryStore) Update(ctx context.Context, c *domain.Category) error {
	return m.Called(ctx, c).Error(0)
}
func (m *mockCategoryStore) Delete(ctx context.Context, categoryID int64) error {
	return m.Called(ctx, categoryID).Error(0)
}

type mockProductStore struct{ mock.Mock }

func (m *mockProductStore) Create(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductStore) Get(ctx context.Context, productID int64) (*domain.Product, error) {
	args := m.Called(ctx, productID)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	args := m.Called(ctx, slug)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	args := m.Called(ctx, sku)
	if p, _ := args.Get(0).(*domain.Product); p != nil {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockProductStore) ListFiltered(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Product), args.Int(1), args.Error(2)
}
func (m *mockProductStore) Featured(ctx context.Context, limit int) ([]domain.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Product), args.Error(1)
}
func (m *mockProductStore) Update(ctx context.Context, p *domain.Product) error {
	return m.Called(ctx, p).Error(0)
}
func (m *mockProductStore) Delete(ctx context.Context, productID int64) error {
	return m.Called(ctx, productID).Error(0)
}

type mockMediaStore struct{ mock.Mock }

func (m *mockMediaStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

func newCatalog(cs *mockCategoryStore, ps *mockProductStore, media *mockMediaStore) Service {
	deps := ServiceDeps{
		CategoryRepo: cs,
		ProductRepo:  ps,
		ContentType:  func(string) string { return "image/jpeg" },
	}
	if media != nil {
		deps.Media = media
	}
	return NewService(deps)
}

// --- categories ---

func TestCreateCategory_SlugConflict(t *testing.T) {
	cs := &mockCategoryStore{}
	cs.On("GetBySlug", mock.Anything, "coffee").
		Return(&domain.Category{ID: 1, Slug: "coffee"}, nil)

	svc := newCatalog(cs, &mockProductStore{}, nil)
	_, err := svc.CreateCategory(context.Background(), domain.CategoryInput{Name: "Coffee", Slug: "coffee"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	cs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateCategory_DefaultsToActive(t *testing.T) {
	cs := &mockCategoryStore{}
	cs.On("GetBySlug", mock.Anything, "coffee").Return(nil, domain.ErrNotFound)
	cs.On("Create", mock.Anything, mock.AnythingOfType("*domain.Category")).Return(nil)

	svc := newCatalog(cs, &mockProductStore{}, nil)
	c, err := svc.CreateCategory(context.Background(), domain.CategoryInput{Name: "Coffee", Slug: "coffee"})
	require.NoError(t, err)
	assert.True(t, c.IsActive)
}

func TestDeleteCategory_BlockedWhileProductsRemain(t *testing.T) {
	cs := &mockCategoryStore{}
	cs.On("HasProducts", mock.Anything, int64(1)).Return(true, nil)

	svc := newCatalog(cs, &mockProductStore{}, nil)
	err := svc.DeleteCategory(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrConflict)
	cs.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestListCategories_AttachesProductCounts(t *testing.T) {
	cs := &mockCategoryStore{}
	cs.On("List", mock.Anything, true, maxPageSize, 0).Return([]domain.Category{
		{ID: 1, Slug: "coffee"},
		{ID: 2, Slug: "tea"},
	}, nil)
	cs.On("CountActiveProducts", mock.Anything, int64(1)).Return(3, nil)
	cs.On("CountActiveProducts", mock.Anything, int64(2)).Return(0, nil)

	svc := newCatalog(cs, &mockProductStore{}, nil)
	out, err := svc.ListCategories(context.Background(), true, 0, 0)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, 3, out[0].ProductCount)
	assert.Equal(t, 0, out[1].ProductCount)
}

// --- products ---

func TestCreateProduct_SlugConflict(t *testing.T) {
	ps := &mockProductStore{}
	ps.On("GetBySlug", mock.Anything, "beans").
		Return(&domain.Product{ID: 1, Slug: "beans"}, nil)

	svc := newCatalog(&mockCategoryStore{}, ps, nil)
	_, err := svc.CreateProduct(context.Background(), domain.CreateProductRequest{
		Name: "Beans", Slug: "beans", PriceUSD: 12,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCreateProduct_SKUConflictAndUnknownCategory(t *testing.T) {
	sku := "SKU-1"
	ps := &mockProductStore{}
	ps.On("GetBySlug", mock.Anything, "beans").Return(nil, domain.ErrNotFound)
	ps.On("GetBySKU", mock.Anything, "SKU-1").
		Return(&domain.Product{ID: 2, SKU: &sku}, nil)

	svc := newCatalog(&mockCategoryStore{}, ps, nil)
	_, err := svc.CreateProduct(context.Background(), domain.CreateProductRequest{
		Name: "Beans", Slug: "beans", SKU: &sku, PriceUSD: 12,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	cs := &mockCategoryStore{}
	cs.On("Get", mock.Anything, int64(9)).Return(nil, domain.ErrNotFound)
	ps2 := &mockProductStore{}
	ps2.On("GetBySlug", mock.Anything, "beans").Return(nil, domain.ErrNotFound)

	catID := int64(9)
	svc = newCatalog(cs, ps2, nil)
	_, err = svc.CreateProduct(context.Background(), domain.CreateProductRequest{
		Name: "Beans", Slug: "beans", PriceUSD: 12, CategoryID: &catID,
	})
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestFeaturedProducts_NormalizesLimit(t *testing.T) {
	ps := &mockProductStore{}
	ps.On("Featured", mock.Anything, 10).Return([]domain.Product{}, nil)

	svc := newCatalog(&mockCategoryStore{}, ps, nil)
	_, err := svc.FeaturedProducts(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.FeaturedProducts(context.Background(), 500)
	require.NoError(t, err)
	ps.AssertNumberOfCalls(t, "Featured", 2)
}

func TestAddProductImage_WithoutMediaStore(t *testing.T) {
	svc := newCatalog(&mockCategoryStore{}, &mockProductStore{}, nil)
	_, err := svc.AddProductImage(context.Background(), 1, "photo.jpg", strings.NewReader("img"))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestAddProductImage_AppendsUploadedURL(t *testing.T) {
	ps := &mockProductStore{}
	ps.On("Get", mock.Anything, int64(1)).Return(&domain.Product{ID: 1, Slug: "beans"}, nil)
	ps.On("Update", mock.Anything, mock.AnythingOfType("*domain.Product")).Return(nil)

	media := &mockMediaStore{}
	media.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "products/1/") && strings.HasSuffix(key, "-photo.jpg")
	}), mock.Anything, "image/jpeg").Return("https://cdn.example.com/photo.jpg", nil)

	svc := newCatalog(&mockCategoryStore{}, ps, media)
	p, err := svc.AddProductImage(context.Background(), 1, "photo.jpg", strings.NewReader("img"))
	require.NoError(t, err)
	require.Len(t, p.Images, 1)
	assert.Equal(t, "https://cdn.example.com/photo.jpg", p.Images[0])
	media.AssertExpectations(t)
}
