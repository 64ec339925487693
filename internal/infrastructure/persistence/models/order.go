package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/order"
	paymentdomain "github.com/marketplace/backend/internal/domain/payment"
)

// OrderModel is the persistence model for the Order aggregate root
type OrderModel struct {
	TenantAggregateModel
	OrderNumber string               `gorm:"type:varchar(50);not null;uniqueIndex:idx_order_tenant_number,priority:2"`
	BuyerID     uuid.UUID            `gorm:"type:uuid;not null;index"`
	Billing     order.BillingDetails `gorm:"embedded;embeddedPrefix:billing_"`
	Items       []OrderItemModel     `gorm:"foreignKey:OrderID;references:ID"`
	Subtotal    decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Tax         decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	OrderTotal  decimal.Decimal      `gorm:"type:decimal(18,2);not null;default:0"`
	Status      order.Status         `gorm:"type:varchar(20);not null;default:'DRAFT';index"`
	IPAddress   string               `gorm:"type:varchar(45)"`
	PaymentID   *uuid.UUID           `gorm:"type:uuid;index"`
	Payment     *PaymentModel        `gorm:"foreignKey:PaymentID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *order.Order {
	o := &order.Order{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		BuyerID:             m.BuyerID,
		OrderNumber:         m.OrderNumber,
		Billing:             m.Billing,
		Subtotal:            m.Subtotal,
		Tax:                 m.Tax,
		OrderTotal:          m.OrderTotal,
		Status:              m.Status,
		IPAddress:           m.IPAddress,
		PaymentID:           m.PaymentID,
		Items:               make([]order.OrderItem, len(m.Items)),
	}
	for i, item := range m.Items {
		o.Items[i] = *item.ToDomain()
	}
	if m.Payment != nil {
		o.Payment = m.Payment.ToDomain()
	}
	return o
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *order.Order) {
	m.FromDomainTenantAggregateRoot(o.TenantAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.BuyerID = o.BuyerID
	m.Billing = o.Billing
	m.Subtotal = o.Subtotal
	m.Tax = o.Tax
	m.OrderTotal = o.OrderTotal
	m.Status = o.Status
	m.IPAddress = o.IPAddress
	m.PaymentID = o.PaymentID
	m.Items = make([]OrderItemModel, len(o.Items))
	for i, item := range o.Items {
		m.Items[i] = *OrderItemModelFromDomain(&item)
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order
func OrderModelFromDomain(o *order.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderItemModel is the persistence model for the OrderItem entity
type OrderItemModel struct {
	ID             uuid.UUID            `gorm:"type:uuid;primary_key"`
	OrderID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductName    string               `gorm:"type:varchar(200);not null"`
	UnitPrice      decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Quantity       int                  `gorm:"not null"`
	Amount         decimal.Decimal      `gorm:"type:decimal(18,2);not null"`
	Variations     []string             `gorm:"serializer:json;type:jsonb"`
	Ordered        bool                 `gorm:"not null;default:false"`
	DeliveryStatus order.DeliveryStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt      time.Time            `gorm:"not null"`
	UpdatedAt      time.Time            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// ToDomain converts the persistence model to a domain OrderItem
func (m *OrderItemModel) ToDomain() *order.OrderItem {
	return &order.OrderItem{
		ID:             m.ID,
		OrderID:        m.OrderID,
		ProductID:      m.ProductID,
		ProductName:    m.ProductName,
		UnitPrice:      m.UnitPrice,
		Quantity:       m.Quantity,
		Amount:         m.Amount,
		Variations:     m.Variations,
		Ordered:        m.Ordered,
		DeliveryStatus: m.DeliveryStatus,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

// OrderItemModelFromDomain creates a persistence model from a domain OrderItem
func OrderItemModelFromDomain(i *order.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:             i.ID,
		OrderID:        i.OrderID,
		ProductID:      i.ProductID,
		ProductName:    i.ProductName,
		UnitPrice:      i.UnitPrice,
		Quantity:       i.Quantity,
		Amount:         i.Amount,
		Variations:     i.Variations,
		Ordered:        i.Ordered,
		DeliveryStatus: i.DeliveryStatus,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

// PaymentModel is the persistence model for the Payment entity
type PaymentModel struct {
	BaseModel
	TenantID      uuid.UUID                 `gorm:"type:uuid;not null;uniqueIndex:idx_payment_tenant_txn,priority:1"`
	BuyerID       uuid.UUID                 `gorm:"type:uuid;not null;index"`
	Gateway       paymentdomain.GatewayType `gorm:"type:varchar(20);not null"`
	TransactionID string                    `gorm:"type:varchar(100);not null;uniqueIndex:idx_payment_tenant_txn,priority:2"`
	Method        string                    `gorm:"type:varchar(50);not null"`
	Amount        decimal.Decimal           `gorm:"type:decimal(18,2);not null"`
	Currency      string                    `gorm:"type:varchar(3);not null"`
	Status        order.PaymentStatus       `gorm:"type:varchar(20);not null;default:'PENDING'"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *order.Payment {
	return &order.Payment{
		BaseEntity:    m.BaseModel.ToDomain(),
		TenantID:      m.TenantID,
		BuyerID:       m.BuyerID,
		Gateway:       m.Gateway,
		TransactionID: m.TransactionID,
		Method:        m.Method,
		Amount:        m.Amount,
		Currency:      m.Currency,
		Status:        m.Status,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *order.Payment) *PaymentModel {
	m := &PaymentModel{
		TenantID:      p.TenantID,
		BuyerID:       p.BuyerID,
		Gateway:       p.Gateway,
		TransactionID: p.TransactionID,
		Method:        p.Method,
		Amount:        p.Amount,
		Currency:      p.Currency,
		Status:        p.Status,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
