package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Category groups products for browsing.
// Slug is unique per tenant and used in storefront URLs.
type Category struct {
	shared.TenantAggregateRoot
	Name        string `gorm:"type:varchar(100);not null"`
	Slug        string `gorm:"type:varchar(120);not null;uniqueIndex:idx_category_tenant_slug,priority:2"`
	Description string `gorm:"type:text"`
	Active      bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new active category
func NewCategory(tenantID uuid.UUID, name, slug, description string) (*Category, error) {
	if err := validateName(name, "category name"); err != nil {
		return nil, err
	}
	if err := validateSlug(slug); err != nil {
		return nil, err
	}

	return &Category{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                strings.TrimSpace(name),
		Slug:                strings.ToLower(strings.TrimSpace(slug)),
		Description:         description,
		Active:              true,
	}, nil
}

// Update changes the category's presentation fields
func (c *Category) Update(name, description string) error {
	if err := validateName(name, "category name"); err != nil {
		return err
	}

	c.Name = strings.TrimSpace(name)
	c.Description = description
	c.MarkUpdated()

	return nil
}

// Deactivate hides the category from the storefront
func (c *Category) Deactivate() {
	c.Active = false
	c.MarkUpdated()
}

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

func validateSlug(slug string) error {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot be empty")
	}
	if len(slug) > 120 {
		return shared.NewDomainError("INVALID_SLUG", "Slug cannot exceed 120 characters")
	}
	if !slugRegex.MatchString(slug) {
		return shared.NewDomainError("INVALID_SLUG", "Slug can only contain lowercase letters, numbers and hyphens")
	}
	return nil
}

func validateName(name, what string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "The "+what+" cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "The "+what+" cannot exceed 200 characters")
	}
	return nil
}
