package cart

import (
	"context"

	"github.com/google/uuid"
)

// CartItemRepository defines the interface for cart persistence
type CartItemRepository interface {
	// Save inserts or updates a cart line
	Save(ctx context.Context, item *CartItem) error

	// Delete removes a cart line
	Delete(ctx context.Context, id uuid.UUID) error

	// FindByID finds a cart line by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CartItem, error)

	// FindByBuyer returns all active cart lines for a buyer
	FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) ([]*CartItem, error)

	// ClearByBuyer removes all cart lines for a buyer, used after a
	// successful settlement
	ClearByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) error
}
