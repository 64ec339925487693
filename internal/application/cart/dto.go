package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
)

// AddToCartInput contains the data needed to add a product to a cart
type AddToCartInput struct {
	TenantID   uuid.UUID
	BuyerID    uuid.UUID
	ProductID  uuid.UUID
	Quantity   int
	Variations []VariationSelection
}

// VariationSelection names one chosen variation axis, e.g. color=red
type VariationSelection struct {
	Category catalog.VariationCategory `json:"category" binding:"required"`
	Value    string                    `json:"value" binding:"required"`
}

// CartLineInfo is one cart line enriched with the current product data
type CartLineInfo struct {
	ID         uuid.UUID       `json:"id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Variations []string        `json:"variations,omitempty"`
	InStock    bool            `json:"in_stock"`
}

// CartInfo is the buyer's cart with a checkout totals preview
type CartInfo struct {
	Lines    []CartLineInfo  `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

func lineInfoFromDomain(item *cart.CartItem, product *catalog.Product) CartLineInfo {
	labels := make([]string, 0, len(item.VariationIDs))
	for _, variationID := range item.VariationIDs {
		for i := range product.Variations {
			if product.Variations[i].ID == variationID {
				labels = append(labels, product.Variations[i].Label())
				break
			}
		}
	}

	return CartLineInfo{
		ID:         item.ID,
		ProductID:  product.ID,
		Name:       product.Name,
		Slug:       product.Slug,
		UnitPrice:  product.Price,
		Quantity:   item.Quantity,
		Subtotal:   item.Subtotal(product.Price),
		Variations: labels,
		InStock:    product.Stock >= item.Quantity,
	}
}
