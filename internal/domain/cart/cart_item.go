package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// Domain errors for cart operations
var (
	// ErrOwnProduct is returned when a seller tries to buy their own listing
	ErrOwnProduct = shared.NewDomainError("OWN_PRODUCT", "You cannot add your own product to the cart")

	// ErrOutOfStock is returned when the product has no sellable units left
	ErrOutOfStock = shared.NewDomainError("OUT_OF_STOCK", "This product is out of stock")
)

// CartItem is one line in a buyer's cart. The same product with the
// same variation selection appears at most once; re-adding increments
// the quantity instead.
type CartItem struct {
	shared.TenantAggregateRoot
	BuyerID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	ProductID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	VariationIDs []uuid.UUID `gorm:"serializer:json;type:jsonb"`
	Quantity     int         `gorm:"not null;default:1"`
	Active       bool        `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CartItem) TableName() string {
	return "cart_items"
}

// NewCartItem creates a cart line for a buyer, guarding the marketplace
// rules: sellers cannot buy their own products and out-of-stock
// products cannot be added.
func NewCartItem(tenantID, buyerID uuid.UUID, product *catalog.Product, variationIDs []uuid.UUID, quantity int) (*CartItem, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Cart item must have a buyer")
	}
	if product == nil {
		return nil, shared.ErrNotFound
	}
	if product.IsOwnedBy(buyerID) {
		return nil, ErrOwnProduct
	}
	if !product.InStock() {
		return nil, ErrOutOfStock
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &CartItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BuyerID:             buyerID,
		ProductID:           product.ID,
		VariationIDs:        variationIDs,
		Quantity:            quantity,
		Active:              true,
	}, nil
}

// IncrementQuantity adds qty more units to the line
func (c *CartItem) IncrementQuantity(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	c.Quantity += qty
	c.MarkUpdated()

	return nil
}

// DecrementQuantity removes one unit; at quantity 1 the caller should
// delete the line instead.
func (c *CartItem) DecrementQuantity() error {
	if c.Quantity <= 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot go below one")
	}

	c.Quantity--
	c.MarkUpdated()

	return nil
}

// HasSameSelection reports whether the line matches the given product
// and variation selection, order-insensitively.
func (c *CartItem) HasSameSelection(productID uuid.UUID, variationIDs []uuid.UUID) bool {
	if c.ProductID != productID {
		return false
	}
	if len(c.VariationIDs) != len(variationIDs) {
		return false
	}
	seen := make(map[uuid.UUID]bool, len(c.VariationIDs))
	for _, id := range c.VariationIDs {
		seen[id] = true
	}
	for _, id := range variationIDs {
		if !seen[id] {
			return false
		}
	}
	return true
}

// Subtotal returns unit price times quantity
func (c *CartItem) Subtotal(unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
