package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payment"
)

// PlaceOrderInput carries the checkout form. Billing details are
// snapshotted onto the order and never re-read from the account.
type PlaceOrderInput struct {
	TenantID  uuid.UUID
	BuyerID   uuid.UUID
	IPAddress string

	FirstName    string `json:"first_name" binding:"required"`
	LastName     string `json:"last_name" binding:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" binding:"required,email"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	Country      string `json:"country"`
	State        string `json:"state"`
	City         string `json:"city"`
	OrderNote    string `json:"order_note"`
}

// InitiatePaymentInput selects the gateway for a placed order
type InitiatePaymentInput struct {
	TenantID uuid.UUID
	BuyerID  uuid.UUID
	OrderID  uuid.UUID
	Gateway  payment.GatewayType
}

// UpdateDeliveryInput moves one order line's fulfilment forward
type UpdateDeliveryInput struct {
	OrderID      uuid.UUID
	ItemID       uuid.UUID
	ActorID      uuid.UUID
	ActorIsAdmin bool
	Status       order.DeliveryStatus
}

// OrderItemInfo is the API representation of an order line
type OrderItemInfo struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	Quantity       int             `json:"quantity"`
	Amount         decimal.Decimal `json:"amount"`
	Variations     []string        `json:"variations,omitempty"`
	DeliveryStatus string          `json:"delivery_status"`
}

// PaymentInfo is the API representation of a settled payment
type PaymentInfo struct {
	Gateway       string          `json:"gateway"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
}

// OrderInfo is the API representation of an order
type OrderInfo struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	Status      string          `json:"status"`
	FullName    string          `json:"full_name"`
	Email       string          `json:"email"`
	Items       []OrderItemInfo `json:"items"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Tax         decimal.Decimal `json:"tax"`
	OrderTotal  decimal.Decimal `json:"order_total"`
	Payment     *PaymentInfo    `json:"payment,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderPage is one page of a buyer's order history
type OrderPage struct {
	Orders     []OrderInfo `json:"orders"`
	TotalCount int64       `json:"total_count"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
}

// SettlementOutcome reports what a processed callback did
type SettlementOutcome struct {
	OrderNumber string `json:"order_number"`
	OrderStatus string `json:"order_status"`
	Duplicate   bool   `json:"duplicate"`
}

func orderInfoFromDomain(o *order.Order) *OrderInfo {
	items := make([]OrderItemInfo, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		items = append(items, OrderItemInfo{
			ID:             item.ID,
			ProductID:      item.ProductID,
			ProductName:    item.ProductName,
			UnitPrice:      item.UnitPrice,
			Quantity:       item.Quantity,
			Amount:         item.Amount,
			Variations:     item.Variations,
			DeliveryStatus: string(item.DeliveryStatus),
		})
	}

	info := &OrderInfo{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      o.Status.String(),
		FullName:    o.Billing.FullName(),
		Email:       o.Billing.Email,
		Items:       items,
		Subtotal:    o.Subtotal,
		Tax:         o.Tax,
		OrderTotal:  o.OrderTotal,
		CreatedAt:   o.CreatedAt,
	}
	if o.Payment != nil {
		info.Payment = &PaymentInfo{
			Gateway:       string(o.Payment.Gateway),
			Method:        o.Payment.Method,
			TransactionID: o.Payment.TransactionID,
			Amount:        o.Payment.Amount,
			Currency:      o.Payment.Currency,
			Status:        string(o.Payment.Status),
		}
	}
	return info
}
