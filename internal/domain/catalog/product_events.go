package catalog

import (
	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constant for Product
const AggregateTypeProduct = "Product"

// Product domain event types
const (
	EventTypeProductListed     = "ProductListed"
	EventTypeProductOutOfStock = "ProductOutOfStock"
)

// ProductListedEvent is published when a seller lists a new product
type ProductListedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewProductListedEvent creates a new ProductListedEvent
func NewProductListedEvent(product *Product) *ProductListedEvent {
	return &ProductListedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductListed, AggregateTypeProduct, product.ID, product.TenantID),
		Name:            product.Name,
		Slug:            product.Slug,
	}
}

// ProductOutOfStockEvent is published when stock reaches zero
type ProductOutOfStockEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewProductOutOfStockEvent creates a new ProductOutOfStockEvent
func NewProductOutOfStockEvent(product *Product) *ProductOutOfStockEvent {
	return &ProductOutOfStockEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductOutOfStock, AggregateTypeProduct, product.ID, product.TenantID),
		Name:            product.Name,
	}
}
