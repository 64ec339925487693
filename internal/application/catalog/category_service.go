package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/shared"
)

// CategoryService manages the category tree. Mutations are admin-only;
// the handler layer enforces that before calling in.
type CategoryService struct {
	categoryRepo catalog.CategoryRepository
	logger       *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categoryRepo catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		logger:       logger,
	}
}

// Create adds a new category
func (s *CategoryService) Create(ctx context.Context, input CreateCategoryInput) (*CategoryInfo, error) {
	if existing, err := s.categoryRepo.FindBySlug(ctx, input.TenantID, input.Slug); err == nil && existing != nil {
		return nil, shared.NewDomainError("SLUG_TAKEN", "A category with this slug already exists")
	} else if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	category, err := catalog.NewCategory(input.TenantID, input.Name, input.Slug, input.Description)
	if err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		s.logger.Error("Failed to create category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create category")
	}

	s.logger.Info("Category created",
		zap.String("category_id", category.ID.String()),
		zap.String("slug", category.Slug))

	info := categoryInfoFromDomain(category)
	return &info, nil
}

// Update changes a category's name and description
func (s *CategoryService) Update(ctx context.Context, input UpdateCategoryInput) (*CategoryInfo, error) {
	category, err := s.categoryRepo.FindByID(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := category.Update(input.Name, input.Description); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		s.logger.Error("Failed to update category", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update category")
	}

	info := categoryInfoFromDomain(category)
	return &info, nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, categoryID uuid.UUID) error {
	if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
		return err
	}
	return s.categoryRepo.Delete(ctx, categoryID)
}

// Get returns one category by slug
func (s *CategoryService) Get(ctx context.Context, tenantID uuid.UUID, slug string) (*CategoryInfo, error) {
	category, err := s.categoryRepo.FindBySlug(ctx, tenantID, slug)
	if err != nil {
		return nil, err
	}
	info := categoryInfoFromDomain(category)
	return &info, nil
}

// List returns all active categories for the tenant
func (s *CategoryService) List(ctx context.Context, tenantID uuid.UUID) ([]CategoryInfo, error) {
	categories, err := s.categoryRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	infos := make([]CategoryInfo, len(categories))
	for i, c := range categories {
		infos[i] = categoryInfoFromDomain(c)
	}
	return infos, nil
}
