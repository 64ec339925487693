package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payment"
)

// MockOrderRepository is a mock implementation of order.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.Order, error) {
	args := m.Called(ctx, tenantID, orderNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID, page, pageSize int) ([]*order.Order, int64, error) {
	args := m.Called(ctx, tenantID, buyerID, page, pageSize)
	return args.Get(0).([]*order.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error) {
	args := m.Called(ctx, tenantID, date)
	return args.String(0), args.Error(1)
}

func (m *MockOrderRepository) UpdateItemDeliveryStatus(ctx context.Context, item *order.OrderItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

// MockPaymentRepository is a mock implementation of order.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *order.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByTransactionID(ctx context.Context, tenantID uuid.UUID, transactionID string) (*order.Payment, error) {
	args := m.Called(ctx, tenantID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Payment), args.Error(1)
}

// GetOrCreateByTransactionID returns the configured payment, or echoes
// the input back when the expectation returns nil (create semantics)
func (m *MockPaymentRepository) GetOrCreateByTransactionID(ctx context.Context, p *order.Payment) (*order.Payment, bool, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return p, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*order.Payment), args.Bool(1), args.Error(2)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySlug(ctx context.Context, tenantID uuid.UUID, slug string) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter catalog.ProductFilter) ([]*catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) DecrementStock(ctx context.Context, productID uuid.UUID, qty int) error {
	args := m.Called(ctx, productID, qty)
	return args.Error(0)
}

// MockCartItemRepository is a mock implementation of cart.CartItemRepository
type MockCartItemRepository struct {
	mock.Mock
}

func (m *MockCartItemRepository) Save(ctx context.Context, item *cart.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockCartItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCartItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*cart.CartItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CartItem), args.Error(1)
}

func (m *MockCartItemRepository) FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) ([]*cart.CartItem, error) {
	args := m.Called(ctx, tenantID, buyerID)
	return args.Get(0).([]*cart.CartItem), args.Error(1)
}

func (m *MockCartItemRepository) ClearByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID) error {
	args := m.Called(ctx, tenantID, buyerID)
	return args.Error(0)
}

// MockMailer is a mock implementation of notification.Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOrderConfirmation(ctx context.Context, to string, o *order.Order) error {
	args := m.Called(ctx, to, o)
	return args.Error(0)
}

// stubGateway is a canned payment.Gateway for service tests
type stubGateway struct {
	gatewayType payment.GatewayType
	instruction *payment.RedirectInstruction
	result      *payment.SettlementResult
	err         error
}

func (g *stubGateway) Type() payment.GatewayType {
	return g.gatewayType
}

func (g *stubGateway) Initiate(_ context.Context, _ *payment.InitiateRequest) (*payment.RedirectInstruction, error) {
	return g.instruction, g.err
}

func (g *stubGateway) VerifyCallback(_ context.Context, _ []byte, _ string) (*payment.SettlementResult, error) {
	return g.result, g.err
}
