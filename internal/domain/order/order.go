package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
)

// TaxRatePercent is the flat marketplace tax applied to the cart
// subtotal at checkout.
var TaxRatePercent = decimal.NewFromInt(2)

// Status represents the lifecycle state of an order
type Status string

const (
	StatusDraft          Status = "DRAFT"
	StatusPendingPayment Status = "PENDING_PAYMENT"
	StatusPaid           Status = "PAID"
	StatusShipped        Status = "SHIPPED"
	StatusCompleted      Status = "COMPLETED"
	StatusFailed         Status = "FAILED"
	StatusCancelled      Status = "CANCELLED"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingPayment, StatusPaid, StatusShipped, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusDraft:
		return target == StatusPendingPayment || target == StatusCancelled
	case StatusPendingPayment:
		return target == StatusPaid || target == StatusFailed || target == StatusCancelled
	case StatusPaid:
		return target == StatusShipped || target == StatusCompleted
	case StatusShipped:
		return target == StatusCompleted
	case StatusCompleted, StatusFailed, StatusCancelled:
		return false // terminal states
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// BillingDetails is the checkout snapshot of who ordered and where to
// deliver. It is frozen at placement and never re-read from the account.
type BillingDetails struct {
	FirstName    string `gorm:"type:varchar(100);not null"`
	LastName     string `gorm:"type:varchar(100);not null"`
	Phone        string `gorm:"type:varchar(50)"`
	Email        string `gorm:"type:varchar(200);not null"`
	AddressLine1 string `gorm:"type:varchar(200)"`
	AddressLine2 string `gorm:"type:varchar(200)"`
	Country      string `gorm:"type:varchar(100)"`
	State        string `gorm:"type:varchar(100)"`
	City         string `gorm:"type:varchar(100)"`
	OrderNote    string `gorm:"type:text"`
}

// FullName returns the billing recipient's display name
func (b BillingDetails) FullName() string {
	return b.FirstName + " " + b.LastName
}

// Order is the aggregate root of the checkout and settlement flow.
// Items are snapshotted exactly once at placement; settlement only
// changes state and never re-derives the lines.
type Order struct {
	shared.TenantAggregateRoot
	BuyerID     uuid.UUID
	OrderNumber string
	Billing     BillingDetails
	Items       []OrderItem
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	OrderTotal  decimal.Decimal // Subtotal + Tax
	Status      Status
	IPAddress   string
	PaymentID   *uuid.UUID
	Payment     *Payment
}

// NewOrder creates a draft order for a buyer
func NewOrder(tenantID, buyerID uuid.UUID, billing BillingDetails) (*Order, error) {
	if buyerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BUYER", "Order must have a buyer")
	}
	if billing.FirstName == "" || billing.LastName == "" {
		return nil, shared.NewDomainError("INVALID_BILLING", "Billing name is required")
	}
	if billing.Email == "" {
		return nil, shared.NewDomainError("INVALID_BILLING", "Billing email is required")
	}

	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BuyerID:             buyerID,
		Billing:             billing,
		Items:               make([]OrderItem, 0),
		Subtotal:            decimal.Zero,
		Tax:                 decimal.Zero,
		OrderTotal:          decimal.Zero,
		Status:              StatusDraft,
	}, nil
}

// AddItem snapshots one cart line onto the draft order
func (o *Order) AddItem(productID uuid.UUID, productName string, unitPrice decimal.Decimal, quantity int, variations []string) error {
	if o.Status != StatusDraft {
		return shared.ErrInvalidState
	}

	item, err := NewOrderItem(o.ID, productID, productName, unitPrice, quantity, variations)
	if err != nil {
		return err
	}

	o.Items = append(o.Items, *item)
	o.recalculateTotals()
	o.Touch()

	return nil
}

// Place finalizes totals and moves the order to PENDING_PAYMENT.
// The order number is assigned by the repository on first save.
func (o *Order) Place() error {
	if !o.Status.CanTransitionTo(StatusPendingPayment) {
		return shared.ErrInvalidState
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}

	o.recalculateTotals()
	o.Status = StatusPendingPayment
	o.MarkUpdated()

	o.AddDomainEvent(NewOrderPlacedEvent(o))

	return nil
}

// Settle links the completed payment and moves the order to PAID.
// The payment amount must match the order total exactly.
func (o *Order) Settle(payment *Payment) error {
	if !o.Status.CanTransitionTo(StatusPaid) {
		return shared.ErrInvalidState
	}
	if payment == nil || payment.Status != PaymentCompleted {
		return shared.NewDomainError("INVALID_PAYMENT", "Order can only be settled with a completed payment")
	}
	if !payment.Amount.Equal(o.OrderTotal) {
		return shared.ErrAmountMismatch
	}

	o.Payment = payment
	o.PaymentID = &payment.ID
	o.Status = StatusPaid
	for i := range o.Items {
		o.Items[i].MarkOrdered()
	}
	o.MarkUpdated()

	o.AddDomainEvent(NewOrderPaidEvent(o, payment))

	return nil
}

// MarkFailed records a declined or failed payment attempt as a
// persisted terminal state.
func (o *Order) MarkFailed() error {
	if !o.Status.CanTransitionTo(StatusFailed) {
		return shared.ErrInvalidState
	}

	o.Status = StatusFailed
	o.MarkUpdated()

	o.AddDomainEvent(NewOrderFailedEvent(o))

	return nil
}

// Cancel cancels an order the buyer abandoned or the gateway reported
// as canceled.
func (o *Order) Cancel() error {
	if !o.Status.CanTransitionTo(StatusCancelled) {
		return shared.ErrInvalidState
	}

	o.Status = StatusCancelled
	o.MarkUpdated()

	return nil
}

// Ship moves a paid order to SHIPPED
func (o *Order) Ship() error {
	if !o.Status.CanTransitionTo(StatusShipped) {
		return shared.ErrInvalidState
	}

	o.Status = StatusShipped
	o.MarkUpdated()

	return nil
}

// Complete closes the order after delivery
func (o *Order) Complete() error {
	if !o.Status.CanTransitionTo(StatusCompleted) {
		return shared.ErrInvalidState
	}

	o.Status = StatusCompleted
	o.MarkUpdated()

	return nil
}

// IsOrdered reports whether the order has been paid for. A true result
// implies a linked payment and fully snapshotted items.
func (o *Order) IsOrdered() bool {
	switch o.Status {
	case StatusPaid, StatusShipped, StatusCompleted:
		return true
	}
	return false
}

// ItemCount returns the number of lines on the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// GetItem returns the line with the given ID, or nil
func (o *Order) GetItem(itemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i]
		}
	}
	return nil
}

func (o *Order) recalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.Amount)
	}
	o.Subtotal = subtotal
	o.Tax = subtotal.Mul(TaxRatePercent).Div(decimal.NewFromInt(100)).Round(2)
	o.OrderTotal = subtotal.Add(o.Tax)
}
