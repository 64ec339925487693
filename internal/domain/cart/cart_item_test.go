package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketplace/backend/internal/domain/catalog"
)

func newApprovedProduct(t *testing.T, sellerID uuid.UUID, stock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(uuid.New(), sellerID, uuid.New(), "Shirt", "shirt", decimal.NewFromInt(100), stock)
	require.NoError(t, err)
	product.Approve()
	return product
}

func TestNewCartItem(t *testing.T) {
	tenantID := uuid.New()
	buyerID := uuid.New()
	sellerID := uuid.New()

	t.Run("creates active line", func(t *testing.T) {
		product := newApprovedProduct(t, sellerID, 5)
		item, err := NewCartItem(tenantID, buyerID, product, nil, 2)
		require.NoError(t, err)
		assert.True(t, item.Active)
		assert.Equal(t, 2, item.Quantity)
		assert.Equal(t, product.ID, item.ProductID)
	})

	t.Run("rejects the seller buying their own product", func(t *testing.T) {
		product := newApprovedProduct(t, sellerID, 5)
		_, err := NewCartItem(tenantID, sellerID, product, nil, 1)
		assert.ErrorIs(t, err, ErrOwnProduct)
	})

	t.Run("rejects out-of-stock product", func(t *testing.T) {
		product := newApprovedProduct(t, sellerID, 0)
		_, err := NewCartItem(tenantID, buyerID, product, nil, 1)
		assert.ErrorIs(t, err, ErrOutOfStock)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		product := newApprovedProduct(t, sellerID, 5)
		_, err := NewCartItem(tenantID, buyerID, product, nil, 0)
		assert.Error(t, err)
	})
}

func TestCartItemQuantity(t *testing.T) {
	product := newApprovedProduct(t, uuid.New(), 5)
	item, err := NewCartItem(uuid.New(), uuid.New(), product, nil, 1)
	require.NoError(t, err)

	require.NoError(t, item.IncrementQuantity(2))
	assert.Equal(t, 3, item.Quantity)

	require.NoError(t, item.DecrementQuantity())
	assert.Equal(t, 2, item.Quantity)

	require.NoError(t, item.DecrementQuantity())
	assert.Error(t, item.DecrementQuantity(), "cannot go below one")
	assert.Equal(t, 1, item.Quantity)
}

func TestCartItemHasSameSelection(t *testing.T) {
	product := newApprovedProduct(t, uuid.New(), 5)
	red, size := uuid.New(), uuid.New()
	item, err := NewCartItem(uuid.New(), uuid.New(), product, []uuid.UUID{red, size}, 1)
	require.NoError(t, err)

	assert.True(t, item.HasSameSelection(product.ID, []uuid.UUID{size, red}), "order-insensitive")
	assert.False(t, item.HasSameSelection(product.ID, []uuid.UUID{red}))
	assert.False(t, item.HasSameSelection(product.ID, []uuid.UUID{red, uuid.New()}))
	assert.False(t, item.HasSameSelection(uuid.New(), []uuid.UUID{red, size}))
}

func TestCartItemSubtotal(t *testing.T) {
	product := newApprovedProduct(t, uuid.New(), 5)
	item, err := NewCartItem(uuid.New(), uuid.New(), product, nil, 2)
	require.NoError(t, err)

	subtotal := item.Subtotal(decimal.NewFromInt(100))
	assert.True(t, subtotal.Equal(decimal.NewFromInt(200)))
}
