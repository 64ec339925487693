package order

import (
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constant for Order
const AggregateTypeOrder = "Order"

// Order domain event types
const (
	EventTypeOrderPlaced = "OrderPlaced"
	EventTypeOrderPaid   = "OrderPaid"
	EventTypeOrderFailed = "OrderFailed"
)

// OrderPlacedEvent is published when a draft order moves to
// PENDING_PAYMENT
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	ItemCount   int             `json:"item_count"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		OrderTotal:      o.OrderTotal,
		ItemCount:       len(o.Items),
	}
}

// OrderPaidEvent is published when a settlement completes
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order, p *Payment) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		TransactionID:   p.TransactionID,
		Amount:          p.Amount,
	}
}

// OrderFailedEvent is published when a payment attempt fails
type OrderFailedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderFailedEvent creates a new OrderFailedEvent
func NewOrderFailedEvent(o *Order) *OrderFailedEvent {
	return &OrderFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderFailed, AggregateTypeOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
	}
}
