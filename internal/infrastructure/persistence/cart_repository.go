package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/shared"
)

// GormCartItemRepository implements cart.CartItemRepository using GORM
type GormCartItemRepository struct {
	db *gorm.DB
}

// NewGormCartItemRepository creates a new GormCartItemRepository
func NewGormCartItemRepository(db *gorm.DB) *GormCartItemRepository {
	return &GormCartItemRepository{db: db}
}

// Save inserts or updates a cart line
func (r *GormCartItemRepository) Save(ctx context.Context, item *cart.CartItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

// Delete removes a cart line
func (r *GormCartItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&cart.CartItem{}, "id = ?", id).Error
}

// FindByID finds a cart line by ID
func (r *GormCartItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	var item cart.CartItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// FindByBuyer returns all active cart lines for a buyer
func (r *GormCartItemRepository) FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) ([]*cart.CartItem, error) {
	var items []*cart.CartItem
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND buyer_id = ? AND active = ?", tenantID, buyerID, true).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// ClearByBuyer removes all cart lines for a buyer
func (r *GormCartItemRepository) ClearByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("tenant_id = ? AND buyer_id = ?", tenantID, buyerID).
		Delete(&cart.CartItem{}).Error
}
