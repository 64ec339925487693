package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	paymentdomain "github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
)

// PaymentStatus represents the state of a payment record
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentCancelled PaymentStatus = "CANCELLED"
)

// Payment is the record of one gateway transaction against an order.
// TransactionID is unique per tenant; settlements are deduplicated on it.
type Payment struct {
	shared.BaseEntity
	TenantID      uuid.UUID
	BuyerID       uuid.UUID
	Gateway       paymentdomain.GatewayType
	TransactionID string
	Method        string // display label, e.g. "eSewa", "Stripe"
	Amount        decimal.Decimal
	Currency      string
	Status        PaymentStatus
}

// NewPayment creates a pending payment record
func NewPayment(tenantID, buyerID uuid.UUID, gateway paymentdomain.GatewayType, transactionID, method string, amount decimal.Decimal, currency string) (*Payment, error) {
	if transactionID == "" {
		return nil, shared.NewDomainError("INVALID_TRANSACTION", "Transaction ID cannot be empty")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payment amount cannot be negative")
	}
	if currency == "" {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency cannot be empty")
	}

	return &Payment{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      tenantID,
		BuyerID:       buyerID,
		Gateway:       gateway,
		TransactionID: transactionID,
		Method:        method,
		Amount:        amount,
		Currency:      currency,
		Status:        PaymentPending,
	}, nil
}

// Complete marks the payment as settled by the gateway
func (p *Payment) Complete() error {
	if p.Status == PaymentCompleted {
		return nil // idempotent
	}
	if p.Status != PaymentPending {
		return shared.ErrInvalidState
	}

	p.Status = PaymentCompleted
	p.Touch()

	return nil
}

// Fail marks the payment as declined
func (p *Payment) Fail() error {
	if p.Status != PaymentPending {
		return shared.ErrInvalidState
	}

	p.Status = PaymentFailed
	p.Touch()

	return nil
}

// Cancel marks the payment as abandoned by the buyer
func (p *Payment) Cancel() error {
	if p.Status != PaymentPending {
		return shared.ErrInvalidState
	}

	p.Status = PaymentCancelled
	p.Touch()

	return nil
}
