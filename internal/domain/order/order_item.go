package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
)

// DeliveryStatus tracks fulfilment of a single order line
type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "PENDING"
	DeliveryProcessing DeliveryStatus = "PROCESSING"
	DeliveryShipped    DeliveryStatus = "SHIPPED"
	DeliveryDelivered  DeliveryStatus = "DELIVERED"
	DeliveryCancelled  DeliveryStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DeliveryStatus
func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliveryProcessing, DeliveryShipped, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

// OrderItem is one line of an order. Product name and unit price are
// snapshots taken at placement so later catalog edits don't rewrite
// order history.
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	UnitPrice      decimal.Decimal
	Quantity       int
	Amount         decimal.Decimal // UnitPrice * Quantity
	Variations     []string        // display labels, e.g. "color: red"
	Ordered        bool            // set when the parent order is paid
	DeliveryStatus DeliveryStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOrderItem creates an order line snapshot
func NewOrderItem(orderID, productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int, variations []string) (*OrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	now := time.Now()
	return &OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      productID,
		ProductName:    productName,
		UnitPrice:      unitPrice,
		Quantity:       quantity,
		Amount:         unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Variations:     variations,
		Ordered:        false,
		DeliveryStatus: DeliveryPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// MarkOrdered flags the line as part of a paid order
func (i *OrderItem) MarkOrdered() {
	i.Ordered = true
	i.UpdatedAt = time.Now()
}

// UpdateDeliveryStatus moves the line's fulfilment forward
func (i *OrderItem) UpdateDeliveryStatus(status DeliveryStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_DELIVERY_STATUS", "Unknown delivery status")
	}
	if !i.Ordered {
		return shared.ErrInvalidState
	}
	if i.DeliveryStatus == DeliveryDelivered || i.DeliveryStatus == DeliveryCancelled {
		return shared.ErrInvalidState
	}

	i.DeliveryStatus = status
	i.UpdatedAt = time.Now()

	return nil
}
