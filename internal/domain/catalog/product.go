package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Product represents a sellable listing in the marketplace.
// It is the aggregate root for catalog operations; every product is
// owned by a seller account and must be approved before buyers see it.
type Product struct {
	shared.TenantAggregateRoot
	SellerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CategoryID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Slug        string          `gorm:"type:varchar(220);not null;uniqueIndex:idx_product_tenant_slug,priority:2"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	OldPrice    decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"` // strike-through price, zero when absent
	Stock       int             `gorm:"not null;default:0"`
	Approved    bool            `gorm:"not null;default:false"`
	Featured    bool            `gorm:"not null;default:false"`
	Variations  []Variation     `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new unapproved product listing
func NewProduct(tenantID, sellerID, categoryID uuid.UUID, name, slug string, price decimal.Decimal, stock int) (*Product, error) {
	if sellerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SELLER", "Product must have a seller")
	}
	if categoryID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product must belong to a category")
	}
	if err := validateName(name, "product name"); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SellerID:            sellerID,
		CategoryID:          categoryID,
		Name:                strings.TrimSpace(name),
		Slug:                strings.ToLower(strings.TrimSpace(slug)),
		Price:               price,
		Stock:               stock,
	}

	product.AddDomainEvent(NewProductListedEvent(product))

	return product, nil
}

// Update changes the product's presentation fields
func (p *Product) Update(name, description string) error {
	if err := validateName(name, "product name"); err != nil {
		return err
	}

	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.MarkUpdated()

	return nil
}

// UpdatePrice sets a new price, remembering the previous one for display
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.OldPrice = p.Price
	p.Price = price
	p.MarkUpdated()

	return nil
}

// Approve makes the product visible to buyers
func (p *Product) Approve() {
	if p.Approved {
		return
	}
	p.Approved = true
	p.MarkUpdated()
}

// Feature marks the product for storefront promotion
func (p *Product) Feature(featured bool) {
	p.Featured = featured
	p.MarkUpdated()
}

// InStock reports whether at least one unit can be sold
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// DecrementStock reduces stock by qty.
// Stock never goes below zero; an oversell attempt is rejected.
func (p *Product) DecrementStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if p.Stock < qty {
		return shared.ErrInsufficientStock
	}

	p.Stock -= qty
	p.MarkUpdated()

	if p.Stock == 0 {
		p.AddDomainEvent(NewProductOutOfStockEvent(p))
	}

	return nil
}

// IncrementStock restocks the product
func (p *Product) IncrementStock(qty int) error {
	if qty <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	p.Stock += qty
	p.MarkUpdated()

	return nil
}

// IsOwnedBy reports whether the given account is the product's seller
func (p *Product) IsOwnedBy(accountID uuid.UUID) bool {
	return p.SellerID == accountID
}

// FindVariation returns the active variation with the given category and value
func (p *Product) FindVariation(category VariationCategory, value string) (*Variation, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	for i := range p.Variations {
		v := &p.Variations[i]
		if v.Active && v.Category == category && strings.ToLower(v.Value) == value {
			return v, nil
		}
	}
	return nil, ErrVariationNotFound
}
