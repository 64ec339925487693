package order

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Save inserts or updates an order with its items. On first insert
	// the repository assigns the order number in the same transaction.
	Save(ctx context.Context, o *Order) error

	// SaveWithLock persists the order with an optimistic version check
	SaveWithLock(ctx context.Context, o *Order) error

	// FindByID finds an order by ID, items and payment included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads the order under a row lock. Must be
	// called inside a transaction.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its business number within
	// the tenant
	FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*Order, error)

	// FindByBuyer returns the buyer's orders, newest first
	FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID, page, pageSize int) ([]*Order, int64, error)

	// GenerateOrderNumber produces the next order number for the day,
	// formatted YYYYMMDD followed by a zero-padded sequence
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error)

	// UpdateItemDeliveryStatus persists a single line's delivery status
	UpdateItemDeliveryStatus(ctx context.Context, item *OrderItem) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Save inserts or updates a payment record
	Save(ctx context.Context, p *Payment) error

	// FindByID finds a payment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// FindByTransactionID finds a payment by gateway transaction ID
	// within the tenant
	FindByTransactionID(ctx context.Context, tenantID uuid.UUID, transactionID string) (*Payment, error)

	// GetOrCreateByTransactionID returns the existing payment for the
	// transaction ID or persists the given one. Settlement retries hit
	// the existing row instead of violating the unique index.
	GetOrCreateByTransactionID(ctx context.Context, p *Payment) (*Payment, bool, error)
}
