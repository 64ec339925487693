package order

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
)

// OrderService serves order history and receipts, and lets sellers move
// fulfilment of their own lines forward
type OrderService struct {
	orderRepo   order.OrderRepository
	paymentRepo order.PaymentRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo order.OrderRepository,
	paymentRepo order.PaymentRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// GetReceipt returns the buyer's view of one order, payment included
func (s *OrderService) GetReceipt(ctx context.Context, tenantID, buyerID, orderID uuid.UUID) (*OrderInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.TenantID != tenantID || o.BuyerID != buyerID {
		// receipts are private; don't reveal that the order exists
		return nil, shared.ErrNotFound
	}

	if o.Payment == nil && o.PaymentID != nil {
		p, err := s.paymentRepo.FindByID(ctx, *o.PaymentID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		o.Payment = p
	}

	return orderInfoFromDomain(o), nil
}

// GetCompletedReceipt resolves the landing lookup after a gateway
// redirect: the buyer arrives with the order number and, for some
// gateways, the payment id carried in the redirect URL.
func (s *OrderService) GetCompletedReceipt(ctx context.Context, tenantID, buyerID uuid.UUID, orderNumber string, paymentID uuid.UUID) (*OrderInfo, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, tenantID, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.BuyerID != buyerID {
		return nil, shared.ErrNotFound
	}
	if !o.IsOrdered() {
		return nil, shared.ErrInvalidState
	}

	if o.Payment == nil {
		switch {
		case o.PaymentID != nil:
			p, err := s.paymentRepo.FindByID(ctx, *o.PaymentID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			o.Payment = p
		case paymentID != uuid.Nil:
			// redirect carried a payment id the order row is not yet
			// linked to; accept it only if it belongs to the buyer
			p, err := s.paymentRepo.FindByID(ctx, paymentID)
			if err != nil && !errors.Is(err, shared.ErrNotFound) {
				return nil, err
			}
			if p != nil && p.BuyerID == buyerID {
				o.Payment = p
			}
		}
	}

	return orderInfoFromDomain(o), nil
}

// ListBuyerOrders returns the buyer's order history, newest first
func (s *OrderService) ListBuyerOrders(ctx context.Context, tenantID, buyerID uuid.UUID, page, pageSize int) (*OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	orders, total, err := s.orderRepo.FindByBuyer(ctx, tenantID, buyerID, page, pageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]OrderInfo, 0, len(orders))
	for _, o := range orders {
		infos = append(infos, *orderInfoFromDomain(o))
	}

	return &OrderPage{
		Orders:     infos,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// UpdateItemDeliveryStatus moves one line's fulfilment forward. Sellers
// may only touch lines for their own products; admins may touch any.
func (s *OrderService) UpdateItemDeliveryStatus(ctx context.Context, input UpdateDeliveryInput) (*OrderItemInfo, error) {
	o, err := s.orderRepo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	item := o.GetItem(input.ItemID)
	if item == nil {
		return nil, shared.ErrNotFound
	}

	if !input.ActorIsAdmin {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsOwnedBy(input.ActorID) {
			return nil, shared.ErrForbidden
		}
	}

	if err := item.UpdateDeliveryStatus(input.Status); err != nil {
		return nil, err
	}
	if err := s.orderRepo.UpdateItemDeliveryStatus(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Delivery status updated",
		zap.String("order_number", o.OrderNumber),
		zap.String("item_id", item.ID.String()),
		zap.String("status", string(item.DeliveryStatus)))

	return &OrderItemInfo{
		ID:             item.ID,
		ProductID:      item.ProductID,
		ProductName:    item.ProductName,
		UnitPrice:      item.UnitPrice,
		Quantity:       item.Quantity,
		Amount:         item.Amount,
		Variations:     item.Variations,
		DeliveryStatus: string(item.DeliveryStatus),
	}, nil
}
