package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// MockCartItemRepository is a mock implementation of cart.CartItemRepository
type MockCartItemRepository struct {
	mock.Mock
}

func (m *MockCartItemRepository) Save(ctx context.Context, item *cart.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartItemRepository) FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) ([]*cart.CartItem, error) {
	args := m.Called(ctx, tenantID, buyerID)
	return args.Get(0).([]*cart.CartItem), args.Error(1)
}

func (m *MockCartItemRepository) ClearByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) error {
	args := m.Called(ctx, tenantID, buyerID)
	return args.Error(0)
}

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

func approvedProduct(t *testing.T, tenantID uuid.UUID, price int64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(tenantID, uuid.New(), uuid.New(), "Pashmina shawl", "pashmina-shawl", decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	p.Approve()
	return p
}

func withVariations(t *testing.T, p *catalog.Product, values ...string) *catalog.Product {
	t.Helper()
	for _, value := range values {
		v, err := catalog.NewVariation(p.ID, catalog.VariationColor, value)
		require.NoError(t, err)
		p.Variations = append(p.Variations, *v)
	}
	return p
}

func TestCartService_AddToCart(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	buyerID := uuid.New()

	t.Run("adds a new line with resolved variations", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := withVariations(t, approvedProduct(t, tenantID, 100, 5), "red", "blue")
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByBuyer", ctx, tenantID, buyerID).Return([]*cart.CartItem{}, nil)
		cartRepo.On("Save", ctx, mock.AnythingOfType("*cart.CartItem")).Return(nil)

		info, err := svc.AddToCart(ctx, AddToCartInput{
			TenantID:  tenantID,
			BuyerID:   buyerID,
			ProductID: product.ID,
			Quantity:  2,
			Variations: []VariationSelection{
				{Category: catalog.VariationColor, Value: "red"},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, 2, info.Quantity)
		assert.True(t, info.Subtotal.Equal(decimal.NewFromInt(200)))
		assert.Equal(t, []string{"color: red"}, info.Variations)
		cartRepo.AssertExpectations(t)
	})

	t.Run("merges with an existing line for the same selection", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		existing, err := cart.NewCartItem(tenantID, buyerID, product, nil, 1)
		require.NoError(t, err)

		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByBuyer", ctx, tenantID, buyerID).Return([]*cart.CartItem{existing}, nil)
		cartRepo.On("Save", ctx, existing).Return(nil)

		info, err := svc.AddToCart(ctx, AddToCartInput{
			TenantID:  tenantID,
			BuyerID:   buyerID,
			ProductID: product.ID,
			Quantity:  1,
		})

		require.NoError(t, err)
		assert.Equal(t, info.ID, existing.ID)
		assert.Equal(t, 2, info.Quantity)
	})

	t.Run("rejects an unknown variation selection", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := withVariations(t, approvedProduct(t, tenantID, 100, 5), "red")
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := svc.AddToCart(ctx, AddToCartInput{
			TenantID:  tenantID,
			BuyerID:   buyerID,
			ProductID: product.ID,
			Variations: []VariationSelection{
				{Category: catalog.VariationColor, Value: "chartreuse"},
			},
		})

		assert.ErrorIs(t, err, catalog.ErrVariationNotFound)
		cartRepo.AssertNotCalled(t, "Save")
	})

	t.Run("sellers cannot buy their own product", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByBuyer", ctx, tenantID, product.SellerID).Return([]*cart.CartItem{}, nil)

		_, err := svc.AddToCart(ctx, AddToCartInput{
			TenantID:  tenantID,
			BuyerID:   product.SellerID,
			ProductID: product.ID,
			Quantity:  1,
		})

		assert.ErrorIs(t, err, cart.ErrOwnProduct)
	})

	t.Run("out-of-stock products cannot be added", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 1)
		require.NoError(t, product.DecrementStock(1))
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)
		cartRepo.On("FindByBuyer", ctx, tenantID, buyerID).Return([]*cart.CartItem{}, nil)

		_, err := svc.AddToCart(ctx, AddToCartInput{
			TenantID:  tenantID,
			BuyerID:   buyerID,
			ProductID: product.ID,
			Quantity:  1,
		})

		assert.ErrorIs(t, err, cart.ErrOutOfStock)
	})

	t.Run("unapproved products are invisible to buyers", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		product.Approved = false
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		_, err := svc.AddToCart(ctx, AddToCartInput{
			TenantID:  tenantID,
			BuyerID:   buyerID,
			ProductID: product.ID,
			Quantity:  1,
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCartService_Decrement(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	buyerID := uuid.New()

	t.Run("reduces quantity above one", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		svc := NewCartService(cartRepo, new(MockProductRepository), zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		item, err := cart.NewCartItem(tenantID, buyerID, product, nil, 3)
		require.NoError(t, err)

		cartRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		cartRepo.On("Save", ctx, item).Return(nil)

		require.NoError(t, svc.Decrement(ctx, buyerID, item.ID))
		assert.Equal(t, 2, item.Quantity)
	})

	t.Run("deletes the line at quantity one", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		svc := NewCartService(cartRepo, new(MockProductRepository), zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		item, err := cart.NewCartItem(tenantID, buyerID, product, nil, 1)
		require.NoError(t, err)

		cartRepo.On("FindByID", ctx, item.ID).Return(item, nil)
		cartRepo.On("Delete", ctx, item.ID).Return(nil)

		require.NoError(t, svc.Decrement(ctx, buyerID, item.ID))
		cartRepo.AssertCalled(t, "Delete", ctx, item.ID)
	})

	t.Run("rejects another buyer's line", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		svc := NewCartService(cartRepo, new(MockProductRepository), zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		item, err := cart.NewCartItem(tenantID, buyerID, product, nil, 2)
		require.NoError(t, err)

		cartRepo.On("FindByID", ctx, item.ID).Return(item, nil)

		err = svc.Decrement(ctx, uuid.New(), item.ID)
		assert.ErrorIs(t, err, shared.ErrForbidden)
		cartRepo.AssertNotCalled(t, "Save")
	})
}

func TestCartService_GetCart(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	buyerID := uuid.New()

	t.Run("computes totals with the checkout tax preview", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		item, err := cart.NewCartItem(tenantID, buyerID, product, nil, 2)
		require.NoError(t, err)

		cartRepo.On("FindByBuyer", ctx, tenantID, buyerID).Return([]*cart.CartItem{item}, nil)
		productRepo.On("FindByID", ctx, product.ID).Return(product, nil)

		info, err := svc.GetCart(ctx, tenantID, buyerID)
		require.NoError(t, err)
		require.Len(t, info.Lines, 1)
		assert.True(t, info.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal %s", info.Subtotal)
		assert.True(t, info.Tax.Equal(decimal.NewFromInt(4)), "tax %s", info.Tax)
		assert.True(t, info.Total.Equal(decimal.NewFromInt(204)), "total %s", info.Total)
	})

	t.Run("drops lines whose product disappeared", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		product := approvedProduct(t, tenantID, 100, 5)
		keep, err := cart.NewCartItem(tenantID, buyerID, product, nil, 1)
		require.NoError(t, err)
		gone, err := cart.NewCartItem(tenantID, buyerID, approvedProduct(t, tenantID, 50, 5), nil, 1)
		require.NoError(t, err)

		cartRepo.On("FindByBuyer", ctx, tenantID, buyerID).Return([]*cart.CartItem{keep, gone}, nil)
		productRepo.On("FindByID", ctx, keep.ProductID).Return(product, nil)
		productRepo.On("FindByID", ctx, gone.ProductID).Return(nil, shared.ErrNotFound)

		info, err := svc.GetCart(ctx, tenantID, buyerID)
		require.NoError(t, err)
		assert.Len(t, info.Lines, 1)
		assert.True(t, info.Subtotal.Equal(decimal.NewFromInt(100)))
	})

	t.Run("empty cart yields zero totals", func(t *testing.T) {
		cartRepo := new(MockCartItemRepository)
		productRepo := new(MockProductRepository)
		svc := NewCartService(cartRepo, productRepo, zap.NewNop())

		cartRepo.On("FindByBuyer", ctx, tenantID, buyerID).Return([]*cart.CartItem{}, nil)

		info, err := svc.GetCart(ctx, tenantID, buyerID)
		require.NoError(t, err)
		assert.Empty(t, info.Lines)
		assert.True(t, info.Total.IsZero())
	})
}
