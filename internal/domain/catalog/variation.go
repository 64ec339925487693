package catalog

import (
	"strings"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/shared"
)

// VariationCategory classifies a product variation axis
type VariationCategory string

const (
	VariationColor VariationCategory = "color"
	VariationSize  VariationCategory = "size"
)

// ErrVariationNotFound is returned when a requested variation does not
// exist on the product. Callers must surface this instead of silently
// dropping the selection.
var ErrVariationNotFound = shared.NewDomainError("VARIATION_NOT_FOUND", "No matching variation for this product")

// Variation is a selectable option on a product, e.g. color=red or size=m
type Variation struct {
	shared.BaseEntity
	ProductID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Category  VariationCategory `gorm:"type:varchar(20);not null"`
	Value     string            `gorm:"type:varchar(100);not null"`
	Active    bool              `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Variation) TableName() string {
	return "variations"
}

// NewVariation creates an active variation for a product
func NewVariation(productID uuid.UUID, category VariationCategory, value string) (*Variation, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Variation must belong to a product")
	}
	if category != VariationColor && category != VariationSize {
		return nil, shared.NewDomainError("INVALID_VARIATION", "Unknown variation category")
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, shared.NewDomainError("INVALID_VARIATION", "Variation value cannot be empty")
	}
	if len(value) > 100 {
		return nil, shared.NewDomainError("INVALID_VARIATION", "Variation value cannot exceed 100 characters")
	}

	return &Variation{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		Category:   category,
		Value:      value,
		Active:     true,
	}, nil
}

// Label returns the display form, e.g. "color: red"
func (v *Variation) Label() string {
	return string(v.Category) + ": " + v.Value
}
