package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ProductService manages product listings. Sellers manage their own
// listings; approval and featuring are admin actions; the storefront
// only ever sees approved products.
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewProductService creates a new product service
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// List creates a new unapproved listing with its variations
func (s *ProductService) List(ctx context.Context, input ListProductInput) (*ProductInfo, error) {
	if _, err := s.categoryRepo.FindByID(ctx, input.CategoryID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CATEGORY_NOT_FOUND", "Category does not exist")
		}
		return nil, err
	}

	if existing, err := s.productRepo.FindBySlug(ctx, input.TenantID, input.Slug); err == nil && existing != nil {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A product with this slug already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	product, err := catalog.NewProduct(input.TenantID, input.SellerID, input.CategoryID,
		input.Name, input.Slug, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}
	product.Description = input.Description

	for _, v := range input.Variations {
		variation, err := catalog.NewVariation(product.ID, v.Category, v.Value)
		if err != nil {
			return nil, err
		}
		product.Variations = append(product.Variations, *variation)
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create product")
	}

	s.logger.Info("Product listed",
		zap.String("product_id", product.ID.String()),
		zap.String("seller_id", product.SellerID.String()),
		zap.String("slug", product.Slug))

	info := productInfoFromDomain(product)
	return &info, nil
}

// Update changes a listing. Only the owning seller or an admin may
// update; price changes keep the previous price as the strike-through
// price.
func (s *ProductService) Update(ctx context.Context, input UpdateProductInput) (*ProductInfo, error) {
	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	if !input.ActorIsAdmin && !product.IsOwnedBy(input.ActorID) {
		return nil, shared.ErrForbidden
	}

	if err := product.Update(input.Name, input.Description); err != nil {
		return nil, err
	}

	if !input.Price.Equal(product.Price) {
		if err := product.UpdatePrice(input.Price); err != nil {
			return nil, err
		}
	}

	if input.Stock != nil {
		if *input.Stock < 0 {
			return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
		}
		product.Stock = *input.Stock
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	info := productInfoFromDomain(product)
	return &info, nil
}

// Delete removes a listing. Only the owning seller or an admin may
// delete.
func (s *ProductService) Delete(ctx context.Context, productID, actorID uuid.UUID, actorIsAdmin bool) error {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	if !actorIsAdmin && !product.IsOwnedBy(actorID) {
		return shared.ErrForbidden
	}

	s.logger.Info("Product deleted",
		zap.String("product_id", productID.String()),
		zap.String("actor_id", actorID.String()))

	return s.productRepo.Delete(ctx, productID)
}

// Approve makes a listing visible on the storefront. Admin only.
func (s *ProductService) Approve(ctx context.Context, productID uuid.UUID) (*ProductInfo, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Approve()

	if err := s.productRepo.Update(ctx, product); err != nil {
		s.logger.Error("Failed to approve product", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to approve product")
	}

	s.logger.Info("Product approved", zap.String("product_id", productID.String()))

	info := productInfoFromDomain(product)
	return &info, nil
}

// Feature toggles the featured flag. Admin only.
func (s *ProductService) Feature(ctx context.Context, productID uuid.UUID, featured bool) (*ProductInfo, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	product.Feature(featured)

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update product")
	}

	info := productInfoFromDomain(product)
	return &info, nil
}

// GetBySlug returns one listing for the storefront. Unapproved
// listings are hidden from everyone but their owner and admins.
func (s *ProductService) GetBySlug(ctx context.Context, tenantID uuid.UUID, slug string, actorID uuid.UUID, actorIsAdmin bool) (*ProductInfo, error) {
	product, err := s.productRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}

	if !product.Approved && !actorIsAdmin && !product.IsOwnedBy(actorID) {
		return nil, shared.ErrNotFound
	}

	info := productInfoFromDomain(product)
	return &info, nil
}

// Browse returns a page of products. Storefront queries only see
// approved listings; sellers see their own unapproved listings when
// filtering by themselves.
func (s *ProductService) Browse(ctx context.Context, input BrowseInput) (*ProductPage, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	filter := catalog.NewProductFilter().
		WithKeyword(input.Keyword).
		WithPagination(page, input.PageSize)

	if input.CategoryID != nil {
		filter = filter.WithCategory(*input.CategoryID)
	}
	if input.SellerID != nil {
		filter = filter.WithSeller(*input.SellerID)
	}
	filter.FeaturedOnly = input.Featured
	filter.ApprovedOnly = !input.IncludeUnapproved

	products, total, err := s.productRepo.FindAll(ctx, input.TenantID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductInfo, len(products))
	for i, p := range products {
		items[i] = productInfoFromDomain(p)
	}

	return &ProductPage{
		Items:      items,
		TotalCount: total,
		Page:       filter.Page,
		PageSize:   filter.Limit(),
	}, nil
}
