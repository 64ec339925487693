package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Category, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Category), args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]*catalog.Category, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]*catalog.Category), args.Error(1)
}

func testCategory(t *testing.T, tenantID uuid.UUID) *catalog.Category {
	t.Helper()
	c, err := catalog.NewCategory(tenantID, "Handicrafts", "handicrafts", "Local handicrafts")
	require.NoError(t, err)
	return c
}

func testProduct(t *testing.T, tenantID, sellerID uuid.UUID) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, sellerID, uuid.New(), "Singing Bowl", "singing-bowl", decimal.NewFromInt(2500), 10)
	require.NoError(t, err)
	return p
}

func TestProductService_List(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sellerID := uuid.New()

	t.Run("creates an unapproved listing with variations", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		svc := NewProductService(productRepo, categoryRepo, zap.NewNop())

		category := testCategory(t, tenantID)
		categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
		productRepo.On("FindBySlug", ctx, tenantID, "singing-bowl").Return(nil, shared.ErrNotFound)
		productRepo.On("Create", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

		info, err := svc.List(ctx, ListProductInput{
			TenantID:   tenantID,
			SellerID:   sellerID,
			CategoryID: category.ID,
			Name:       "Singing Bowl",
			Slug:       "singing-bowl",
			Price:      decimal.NewFromInt(2500),
			Stock:      10,
			Variations: []VariationInput{
				{Category: catalog.VariationSize, Value: "small"},
				{Category: catalog.VariationSize, Value: "large"},
			},
		})

		require.NoError(t, err)
		assert.False(t, info.Approved, "new listings await approval")
		assert.Len(t, info.Variations, 2)
		productRepo.AssertExpectations(t)
	})

	t.Run("rejects unknown categories", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		svc := NewProductService(productRepo, categoryRepo, zap.NewNop())

		categoryID := uuid.New()
		categoryRepo.On("FindByID", ctx, categoryID).Return(nil, shared.ErrNotFound)

		_, err := svc.List(ctx, ListProductInput{
			TenantID:   tenantID,
			SellerID:   sellerID,
			CategoryID: categoryID,
			Name:       "Orphan",
			Slug:       "orphan",
			Price:      decimal.NewFromInt(10),
		})

		require.Error(t, err)
		productRepo.AssertNotCalled(t, "Create")
	})

	t.Run("rejects duplicate slugs", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		categoryRepo := new(MockCategoryRepository)
		svc := NewProductService(productRepo, categoryRepo, zap.NewNop())

		category := testCategory(t, tenantID)
		categoryRepo.On("FindByID", ctx, category.ID).Return(category, nil)
		productRepo.On("FindBySlug", ctx, tenantID, "singing-bowl").Return(testProduct(t, tenantID, sellerID), nil)

		_, err := svc.List(ctx, ListProductInput{
			TenantID:   tenantID,
			SellerID:   sellerID,
			CategoryID: category.ID,
			Name:       "Singing Bowl",
			Slug:       "singing-bowl",
			Price:      decimal.NewFromInt(2500),
		})

		require.Error(t, err)
		productRepo.AssertNotCalled(t, "Create")
	})
}

func TestProductService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sellerID := uuid.New()

	t.Run("owner updates price and keeps the old one", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

		product := testProduct(t, tenantID, sellerID)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("Update", ctx, product).Return(nil)

		info, err := svc.Update(ctx, UpdateProductInput{
			ProductID:   product.ID,
			ActorID:     sellerID,
			Name:        "Singing Bowl",
			Description: "Hand-hammered bronze",
			Price:       decimal.NewFromInt(2000),
		})

		require.NoError(t, err)
		assert.True(t, info.Price.Equal(decimal.NewFromInt(2000)))
		assert.True(t, info.OldPrice.Equal(decimal.NewFromInt(2500)), "previous price is kept")
	})

	t.Run("strangers cannot update", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

		product := testProduct(t, tenantID, sellerID)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := svc.Update(ctx, UpdateProductInput{
			ProductID: product.ID,
			ActorID:   uuid.New(),
			Name:      "Hijacked",
			Price:     decimal.NewFromInt(1),
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		productRepo.AssertNotCalled(t, "Update")
	})

	t.Run("admins can update any listing", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

		product := testProduct(t, tenantID, sellerID)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		productRepo.On("Update", ctx, product).Return(nil)

		_, err := svc.Update(ctx, UpdateProductInput{
			ProductID:    product.ID,
			ActorID:      uuid.New(),
			ActorIsAdmin: true,
			Name:         "Singing Bowl",
			Price:        product.Price,
		})

		require.NoError(t, err)
	})
}

func TestProductService_Approve(t *testing.T) {
	ctx := context.Background()
	productRepo := new(MockProductRepository)
	svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

	product := testProduct(t, uuid.New(), uuid.New())
	productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	productRepo.On("Update", ctx, product).Return(nil)

	info, err := svc.Approve(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, info.Approved)
}

func TestProductService_GetBySlug(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sellerID := uuid.New()

	t.Run("hides unapproved listings from the storefront", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

		product := testProduct(t, tenantID, sellerID)
		productRepo.On("FindBySlug", ctx, tenantID, "singing-bowl").Return(product, nil)

		_, err := svc.GetBySlug(ctx, tenantID, "singing-bowl", uuid.New(), false)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("owner sees their unapproved listing", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

		product := testProduct(t, tenantID, sellerID)
		productRepo.On("FindBySlug", ctx, tenantID, "singing-bowl").Return(product, nil)

		info, err := svc.GetBySlug(ctx, tenantID, "singing-bowl", sellerID, false)
		require.NoError(t, err)
		assert.Equal(t, product.ID, info.ID)
	})

	t.Run("approved listings are public", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

		product := testProduct(t, tenantID, sellerID)
		product.Approve()
		productRepo.On("FindBySlug", ctx, tenantID, "singing-bowl").Return(product, nil)

		info, err := svc.GetBySlug(ctx, tenantID, "singing-bowl", uuid.Nil, false)
		require.NoError(t, err)
		assert.True(t, info.Approved)
	})
}

func TestProductService_Browse(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	productRepo := new(MockProductRepository)
	svc := NewProductService(productRepo, new(MockCategoryRepository), zap.NewNop())

	approved := testProduct(t, tenantID, uuid.New())
	approved.Approve()

	productRepo.On("FindAll", ctx, tenantID, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.ApprovedOnly && f.Keyword == "bowl"
	})).Return([]*catalog.Product{approved}, int64(1), nil)

	page, err := svc.Browse(ctx, BrowseInput{
		TenantID: tenantID,
		Keyword:  "bowl",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
}
