package order

import (
	"context"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/order"
)

// TransactionScope provides transactional access to the repositories
// touched by checkout and settlement. All repository operations inside
// Execute share one database transaction and commit or roll back
// atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the checkout-side
// repositories within a transaction.
//
// Aggregate boundary notes:
//   - OrderRepo: the Order aggregate root; items are persisted with it.
//   - PaymentRepo: Payment records live outside the Order aggregate so
//     settlement retries can deduplicate on transaction ID before the
//     order row is even touched.
//   - ProductRepo: used only for the conditional stock decrement at
//     settlement; catalog writes never go through this scope.
//   - CartRepo: used only to clear the buyer's cart after settlement.
type TransactionalRepositories interface {
	OrderRepo() order.OrderRepository
	PaymentRepo() order.PaymentRepository
	ProductRepo() catalog.ProductRepository
	CartRepo() cart.CartItemRepository
}

// NoOpTransactionScope runs the function without a real transaction.
// Useful for tests.
type NoOpTransactionScope struct {
	orderRepo   order.OrderRepository
	paymentRepo order.PaymentRepository
	productRepo catalog.ProductRepository
	cartRepo    cart.CartItemRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	orderRepo order.OrderRepository,
	paymentRepo order.PaymentRepository,
	productRepo catalog.ProductRepository,
	cartRepo cart.CartItemRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// Execute runs the function without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

// PaymentRepo returns the payment repository
func (s *NoOpTransactionScope) PaymentRepo() order.PaymentRepository {
	return s.paymentRepo
}

// ProductRepo returns the product repository
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductRepository {
	return s.productRepo
}

// CartRepo returns the cart item repository
func (s *NoOpTransactionScope) CartRepo() cart.CartItemRepository {
	return s.cartRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
