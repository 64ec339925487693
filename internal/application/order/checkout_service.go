package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/cart"
	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
// The HTTP layer turns this into a redirect back to the catalog.
var ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "Cart is empty")

// CheckoutService places orders from the buyer's cart and hands them to
// a payment gateway. Items are snapshotted exactly once at placement;
// the cart is never re-read afterwards.
type CheckoutService struct {
	cartRepo    cart.CartItemRepository
	productRepo catalog.ProductRepository
	orderRepo   order.OrderRepository
	txScope     TransactionScope
	gateways    *payment.Registry
	currency    string
	logger      *zap.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	cartRepo cart.CartItemRepository,
	productRepo catalog.ProductRepository,
	orderRepo order.OrderRepository,
	txScope TransactionScope,
	gateways *payment.Registry,
	currency string,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		txScope:     txScope,
		gateways:    gateways,
		currency:    currency,
		logger:      logger,
	}
}

// PlaceOrder snapshots the buyer's cart into a PENDING_PAYMENT order.
// Product names, unit prices and variation labels are frozen here; the
// cart stays untouched until a settlement succeeds.
func (s *CheckoutService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*OrderInfo, error) {
	lines, err := s.cartRepo.FindByBuyer(ctx, input.TenantID, input.BuyerID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	o, err := order.NewOrder(input.TenantID, input.BuyerID, order.BillingDetails{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Email:        input.Email,
		AddressLine1: input.AddressLine1,
		AddressLine2: input.AddressLine2,
		Country:      input.Country,
		State:        input.State,
		City:         input.City,
		OrderNote:    input.OrderNote,
	})
	if err != nil {
		return nil, err
	}
	o.IPAddress = input.IPAddress

	for _, line := range lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				continue // product unlisted since it was carted
			}
			return nil, err
		}

		labels := make([]string, 0, len(line.VariationIDs))
		for _, variationID := range line.VariationIDs {
			for i := range product.Variations {
				if product.Variations[i].ID == variationID {
					labels = append(labels, product.Variations[i].Label())
					break
				}
			}
		}

		if err := o.AddItem(product.ID, product.Name, product.Price, line.Quantity, labels); err != nil {
			return nil, err
		}
	}

	if len(o.Items) == 0 {
		return nil, ErrEmptyCart
	}

	if err := o.Place(); err != nil {
		return nil, err
	}

	if err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.OrderRepo().Save(ctx, o)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("Order placed",
		zap.String("order_number", o.OrderNumber),
		zap.String("buyer_id", input.BuyerID.String()),
		zap.String("total", o.OrderTotal.String()))

	return orderInfoFromDomain(o), nil
}

// InitiatePayment starts a gateway payment for a placed order and
// returns the redirect instruction for the frontend
func (s *CheckoutService) InitiatePayment(ctx context.Context, input InitiatePaymentInput) (*payment.RedirectInstruction, error) {
	o, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != input.BuyerID || o.TenantID != input.TenantID {
		return nil, shared.ErrForbidden
	}
	if o.Status != order.StatusPendingPayment {
		return nil, shared.ErrInvalidState
	}

	gateway, err := s.gateways.Get(input.Gateway)
	if err != nil {
		return nil, err
	}

	instruction, err := gateway.Initiate(ctx, &payment.InitiateRequest{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		BuyerEmail:  o.Billing.Email,
		Subtotal:    o.Subtotal,
		Tax:         o.Tax,
		Total:       o.OrderTotal,
		Currency:    s.currency,
	})
	if err != nil {
		s.logger.Error("Payment initiation failed",
			zap.String("order_number", o.OrderNumber),
			zap.String("gateway", string(input.Gateway)),
			zap.Error(err))
		return nil, err
	}

	return instruction, nil
}

// CancelOrder lets a buyer abandon an unpaid order
func (s *CheckoutService) CancelOrder(ctx context.Context, tenantID, buyerID, orderID uuid.UUID) error {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.BuyerID != buyerID || o.TenantID != tenantID {
		return shared.ErrForbidden
	}
	if err := o.Cancel(); err != nil {
		return err
	}
	return s.orderRepo.SaveWithLock(ctx, o)
}
