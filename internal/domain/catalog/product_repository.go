package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product with its variations
	Create(ctx context.Context, product *Product) error

	// Update updates an existing product
	Update(ctx context.Context, product *Product) error

	// Delete deletes a product by ID
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a product by ID, variations included
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySlug finds a product by slug within the tenant
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Product, error)

	// FindAll returns products for the tenant matching the filter
	FindAll(ctx context.Context, tenantID uuid.UUID, filter ProductFilter) ([]*Product, int64, error)

	// DecrementStock atomically reduces stock by qty, rejecting the
	// update when fewer than qty units remain. Implementations issue a
	// conditional UPDATE so concurrent settlements cannot oversell.
	DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error
}

// CategoryRepository defines the interface for category persistence
type CategoryRepository interface {
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*Category, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]*Category, error)
}

// ProductFilter contains filter options for querying products
type ProductFilter struct {
	// Search keyword for name or description
	Keyword string

	// Filter by category
	CategoryID *uuid.UUID

	// Filter by seller
	SellerID *uuid.UUID

	// Only approved products (storefront queries)
	ApprovedOnly bool

	// Only featured products
	FeaturedOnly bool

	// Pagination
	Page     int
	PageSize int
}

// NewProductFilter creates a filter with default pagination
func NewProductFilter() ProductFilter {
	return ProductFilter{Page: 1, PageSize: 20}
}

// WithKeyword sets the search keyword
func (f ProductFilter) WithKeyword(keyword string) ProductFilter {
	f.Keyword = keyword
	return f
}

// WithCategory sets the category filter
func (f ProductFilter) WithCategory(categoryID uuid.UUID) ProductFilter {
	f.CategoryID = &categoryID
	return f
}

// WithSeller sets the seller filter
func (f ProductFilter) WithSeller(sellerID uuid.UUID) ProductFilter {
	f.SellerID = &sellerID
	return f
}

// WithPagination sets pagination parameters
func (f ProductFilter) WithPagination(page, pageSize int) ProductFilter {
	f.Page = page
	f.PageSize = pageSize
	return f
}

// Offset returns the offset for pagination
func (f ProductFilter) Offset() int {
	if f.Page <= 0 {
		return 0
	}
	return (f.Page - 1) * f.Limit()
}

// Limit returns the limit for pagination
func (f ProductFilter) Limit() int {
	if f.PageSize <= 0 {
		return 20
	}
	if f.PageSize > 100 {
		return 100
	}
	return f.PageSize
}
