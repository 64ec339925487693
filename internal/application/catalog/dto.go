package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/catalog"
)

// CreateCategoryInput contains the input for creating a category
type CreateCategoryInput struct {
	TenantID    uuid.UUID
	Name        string
	Slug        string
	Description string
}

// UpdateCategoryInput contains the input for updating a category
type UpdateCategoryInput struct {
	CategoryID  uuid.UUID
	Name        string
	Description string
}

// CategoryInfo is the category view returned to callers
type CategoryInfo struct {
	ID          uuid.UUID
	Name        string
	Slug        string
	Description string
	Active      bool
}

// VariationInput declares one selectable option on a new listing
type VariationInput struct {
	Category catalog.VariationCategory
	Value    string
}

// ListProductInput contains the input for creating a product listing
type ListProductInput struct {
	TenantID    uuid.UUID
	SellerID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Variations  []VariationInput
}

// UpdateProductInput contains the input for updating a listing. The
// acting account must own the listing or be an admin.
type UpdateProductInput struct {
	ProductID    uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
	Name         string
	Description  string
	Price        decimal.Decimal
	Stock        *int // nil leaves stock unchanged
}

// BrowseInput contains storefront browse and search parameters
type BrowseInput struct {
	TenantID   uuid.UUID
	Keyword    string
	CategoryID *uuid.UUID
	SellerID   *uuid.UUID
	Featured   bool
	Page       int
	PageSize   int

	// IncludeUnapproved is only honored for admin and owner queries
	IncludeUnapproved bool
}

// VariationInfo is the variation view returned to callers
type VariationInfo struct {
	ID       uuid.UUID
	Category catalog.VariationCategory
	Value    string
}

// ProductInfo is the product view returned to callers
type ProductInfo struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	CategoryID  uuid.UUID
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	OldPrice    decimal.Decimal
	Stock       int
	InStock     bool
	Approved    bool
	Featured    bool
	Variations  []VariationInfo
	CreatedAt   time.Time
}

// ProductPage is a paginated product listing
type ProductPage struct {
	Items      []ProductInfo
	TotalCount int64
	Page       int
	PageSize   int
}

func categoryInfoFromDomain(c *catalog.Category) CategoryInfo {
	return CategoryInfo{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		Active:      c.Active,
	}
}

func productInfoFromDomain(p *catalog.Product) ProductInfo {
	variations := make([]VariationInfo, 0, len(p.Variations))
	for _, v := range p.Variations {
		if !v.Active {
			continue
		}
		variations = append(variations, VariationInfo{
			ID:       v.ID,
			Category: v.Category,
			Value:    v.Value,
		})
	}

	return ProductInfo{
		ID:          p.ID,
		SellerID:    p.SellerID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		Approved:    p.Approved,
		Featured:    p.Featured,
		Variations:  variations,
		CreatedAt:   p.CreatedAt,
	}
}
