package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	appcatalog "github.com/marketplace/backend/internal/application/catalog"
)

// VariationRequest declares one selectable option on a listing
type VariationRequest struct {
	Category string `json:"category" binding:"required,oneof=color size"`
	Value    string `json:"value" binding:"required,max=100"`
}

// CreateListingRequest represents a new listing submission
type CreateListingRequest struct {
	CategoryID  uuid.UUID          `json:"category_id" binding:"required"`
	Name        string             `json:"name" binding:"required,max=200"`
	Slug        string             `json:"slug" binding:"required,slug,max=200"`
	Description string             `json:"description" binding:"max=2000"`
	Price       decimal.Decimal    `json:"price" binding:"required"`
	Stock       int                `json:"stock" binding:"min=0"`
	Variations  []VariationRequest `json:"variations" binding:"dive"`
}

// UpdateProductRequest represents a listing update
type UpdateProductRequest struct {
	Name        string          `json:"name" binding:"required,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       *int            `json:"stock" binding:"omitempty,min=0"`
}

// FeatureProductRequest toggles a listing's featured flag
type FeatureProductRequest struct {
	Featured bool `json:"featured"`
}

// BrowseProductsRequest represents storefront browse parameters
type BrowseProductsRequest struct {
	Keyword    string     `form:"q"`
	CategoryID *uuid.UUID `form:"category_id"`
	SellerID   *uuid.UUID `form:"seller_id"`
	Featured   bool       `form:"featured"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
}

// VariationResponse contains one variation option on a listing
type VariationResponse struct {
	ID       uuid.UUID `json:"id"`
	Category string    `json:"category"`
	Value    string    `json:"value"`
}

// ProductResponse contains listing details returned to clients
type ProductResponse struct {
	ID          uuid.UUID           `json:"id"`
	SellerID    uuid.UUID           `json:"seller_id"`
	CategoryID  uuid.UUID           `json:"category_id"`
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Price       decimal.Decimal     `json:"price"`
	OldPrice    decimal.Decimal     `json:"old_price"`
	Stock       int                 `json:"stock"`
	InStock     bool                `json:"in_stock"`
	Approved    bool                `json:"approved"`
	Featured    bool                `json:"featured"`
	Variations  []VariationResponse `json:"variations"`
	CreatedAt   time.Time           `json:"created_at"`
}

func productResponseFromInfo(info *appcatalog.ProductInfo) ProductResponse {
	variations := make([]VariationResponse, 0, len(info.Variations))
	for _, v := range info.Variations {
		variations = append(variations, VariationResponse{
			ID:       v.ID,
			Category: string(v.Category),
			Value:    v.Value,
		})
	}

	return ProductResponse{
		ID:          info.ID,
		SellerID:    info.SellerID,
		CategoryID:  info.CategoryID,
		Name:        info.Name,
		Slug:        info.Slug,
		Description: info.Description,
		Price:       info.Price,
		OldPrice:    info.OldPrice,
		Stock:       info.Stock,
		InStock:     info.InStock,
		Approved:    info.Approved,
		Featured:    info.Featured,
		Variations:  variations,
		CreatedAt:   info.CreatedAt,
	}
}
