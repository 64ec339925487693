package order

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/catalog"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
)

func newOrderServiceFixture() (*MockOrderRepository, *MockPaymentRepository, *MockProductRepository, *OrderService) {
	orderRepo := new(MockOrderRepository)
	paymentRepo := new(MockPaymentRepository)
	productRepo := new(MockProductRepository)
	svc := NewOrderService(orderRepo, paymentRepo, productRepo, zap.NewNop())
	return orderRepo, paymentRepo, productRepo, svc
}

func TestOrderService_GetReceipt(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("returns the buyer's receipt with payment", func(t *testing.T) {
		orderRepo, _, _, svc := newOrderServiceFixture()

		o := pendingOrder(t, tenantID)
		p, err := order.NewPayment(tenantID, o.BuyerID, payment.GatewayEsewa, "000ABC123", "eSewa", o.OrderTotal, "NPR")
		require.NoError(t, err)
		require.NoError(t, p.Complete())
		require.NoError(t, o.Settle(p))

		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		info, err := svc.GetReceipt(ctx, tenantID, o.BuyerID, o.ID)

		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, info.OrderNumber)
		assert.Equal(t, "Sita Sharma", info.FullName)
		require.NotNil(t, info.Payment)
		assert.Equal(t, "eSewa", info.Payment.Method)
		assert.Equal(t, "000ABC123", info.Payment.TransactionID)
	})

	t.Run("loads the payment when only the reference survived hydration", func(t *testing.T) {
		orderRepo, paymentRepo, _, svc := newOrderServiceFixture()

		o := pendingOrder(t, tenantID)
		p, err := order.NewPayment(tenantID, o.BuyerID, payment.GatewayEsewa, "000ABC123", "eSewa", o.OrderTotal, "NPR")
		require.NoError(t, err)
		require.NoError(t, p.Complete())
		require.NoError(t, o.Settle(p))
		o.Payment = nil // simulates a load path that didn't join the payment

		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		paymentRepo.On("FindByID", ctx, p.ID).Return(p, nil)

		info, err := svc.GetReceipt(ctx, tenantID, o.BuyerID, o.ID)

		require.NoError(t, err)
		require.NotNil(t, info.Payment)
		assert.Equal(t, "000ABC123", info.Payment.TransactionID)
	})

	t.Run("other buyers see nothing", func(t *testing.T) {
		orderRepo, _, _, svc := newOrderServiceFixture()

		o := pendingOrder(t, tenantID)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := svc.GetReceipt(ctx, tenantID, uuid.New(), o.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOrderService_GetCompletedReceipt(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("resolves a settled order by number", func(t *testing.T) {
		orderRepo, _, _, svc := newOrderServiceFixture()

		o := pendingOrder(t, tenantID)
		p, err := order.NewPayment(tenantID, o.BuyerID, payment.GatewayEsewa, "000ABC123", "eSewa", o.OrderTotal, "NPR")
		require.NoError(t, err)
		require.NoError(t, p.Complete())
		require.NoError(t, o.Settle(p))

		orderRepo.On("FindByOrderNumber", ctx, tenantID, o.OrderNumber).Return(o, nil)

		info, err := svc.GetCompletedReceipt(ctx, tenantID, o.BuyerID, o.OrderNumber, uuid.Nil)

		require.NoError(t, err)
		assert.Equal(t, o.OrderNumber, info.OrderNumber)
		require.NotNil(t, info.Payment)
		assert.Equal(t, "000ABC123", info.Payment.TransactionID)
	})

	t.Run("falls back to the payment id from the redirect", func(t *testing.T) {
		orderRepo, paymentRepo, _, svc := newOrderServiceFixture()

		o := pendingOrder(t, tenantID)
		p, err := order.NewPayment(tenantID, o.BuyerID, payment.GatewayEsewa, "000ABC123", "eSewa", o.OrderTotal, "NPR")
		require.NoError(t, err)
		require.NoError(t, p.Complete())
		require.NoError(t, o.Settle(p))
		o.Payment = nil
		o.PaymentID = nil

		orderRepo.On("FindByOrderNumber", ctx, tenantID, o.OrderNumber).Return(o, nil)
		paymentRepo.On("FindByID", ctx, p.ID).Return(p, nil)

		info, err := svc.GetCompletedReceipt(ctx, tenantID, o.BuyerID, o.OrderNumber, p.ID)

		require.NoError(t, err)
		require.NotNil(t, info.Payment)
		assert.Equal(t, "000ABC123", info.Payment.TransactionID)
	})

	t.Run("unknown order number is a typed not-found", func(t *testing.T) {
		orderRepo, _, _, svc := newOrderServiceFixture()

		orderRepo.On("FindByOrderNumber", ctx, tenantID, "20260829999").Return(nil, shared.ErrNotFound)

		_, err := svc.GetCompletedReceipt(ctx, tenantID, uuid.New(), "20260829999", uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("unsettled orders have no receipt yet", func(t *testing.T) {
		orderRepo, _, _, svc := newOrderServiceFixture()

		o := pendingOrder(t, tenantID)
		orderRepo.On("FindByOrderNumber", ctx, tenantID, o.OrderNumber).Return(o, nil)

		_, err := svc.GetCompletedReceipt(ctx, tenantID, o.BuyerID, o.OrderNumber, uuid.Nil)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestOrderService_ListBuyerOrders(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	buyerID := uuid.New()

	orderRepo, _, _, svc := newOrderServiceFixture()

	first := pendingOrder(t, tenantID)
	orderRepo.On("FindByBuyer", ctx, tenantID, buyerID, 1, 20).Return([]*order.Order{first}, int64(5), nil)

	page, err := svc.ListBuyerOrders(ctx, tenantID, buyerID, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, int64(5), page.TotalCount)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, first.OrderNumber, page.Orders[0].OrderNumber)
}

func TestOrderService_UpdateItemDeliveryStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	sellerID := uuid.New()

	paidOrder := func(t *testing.T) *order.Order {
		t.Helper()
		o := pendingOrder(t, tenantID)
		p, err := order.NewPayment(tenantID, o.BuyerID, payment.GatewayEsewa, uuid.NewString(), "eSewa", o.OrderTotal, "NPR")
		require.NoError(t, err)
		require.NoError(t, p.Complete())
		require.NoError(t, o.Settle(p))
		return o
	}

	sellerProduct := func(t *testing.T, productID uuid.UUID) *catalog.Product {
		t.Helper()
		p, err := catalog.NewProduct(tenantID, sellerID, uuid.New(), "Handwoven scarf", "handwoven-scarf", decimal.NewFromInt(100), 10)
		require.NoError(t, err)
		p.ID = productID
		return p
	}

	t.Run("seller ships their own line", func(t *testing.T) {
		orderRepo, _, productRepo, svc := newOrderServiceFixture()

		o := paidOrder(t)
		item := &o.Items[0]
		productRepo.On("FindByID", ctx, item.ProductID).Return(sellerProduct(t, item.ProductID), nil)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		orderRepo.On("UpdateItemDeliveryStatus", ctx, item).Return(nil)

		info, err := svc.UpdateItemDeliveryStatus(ctx, UpdateDeliveryInput{
			OrderID: o.ID,
			ItemID:  item.ID,
			ActorID: sellerID,
			Status:  order.DeliveryShipped,
		})

		require.NoError(t, err)
		assert.Equal(t, string(order.DeliveryShipped), info.DeliveryStatus)
	})

	t.Run("other sellers are rejected", func(t *testing.T) {
		orderRepo, _, productRepo, svc := newOrderServiceFixture()

		o := paidOrder(t)
		item := &o.Items[0]
		productRepo.On("FindByID", ctx, item.ProductID).Return(sellerProduct(t, item.ProductID), nil)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := svc.UpdateItemDeliveryStatus(ctx, UpdateDeliveryInput{
			OrderID: o.ID,
			ItemID:  item.ID,
			ActorID: uuid.New(),
			Status:  order.DeliveryShipped,
		})

		assert.ErrorIs(t, err, shared.ErrForbidden)
		orderRepo.AssertNotCalled(t, "UpdateItemDeliveryStatus")
	})

	t.Run("admins bypass the ownership check", func(t *testing.T) {
		orderRepo, _, productRepo, svc := newOrderServiceFixture()

		o := paidOrder(t)
		item := &o.Items[0]
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)
		orderRepo.On("UpdateItemDeliveryStatus", ctx, item).Return(nil)

		_, err := svc.UpdateItemDeliveryStatus(ctx, UpdateDeliveryInput{
			OrderID:      o.ID,
			ItemID:       item.ID,
			ActorID:      uuid.New(),
			ActorIsAdmin: true,
			Status:       order.DeliveryProcessing,
		})

		require.NoError(t, err)
		productRepo.AssertNotCalled(t, "FindByID")
	})

	t.Run("unpaid lines cannot move", func(t *testing.T) {
		orderRepo, _, productRepo, svc := newOrderServiceFixture()

		o := pendingOrder(t, tenantID) // never settled, items not ordered
		item := &o.Items[0]
		productRepo.On("FindByID", ctx, item.ProductID).Return(sellerProduct(t, item.ProductID), nil)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := svc.UpdateItemDeliveryStatus(ctx, UpdateDeliveryInput{
			OrderID: o.ID,
			ItemID:  item.ID,
			ActorID: sellerID,
			Status:  order.DeliveryShipped,
		})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("unknown lines are not found", func(t *testing.T) {
		orderRepo, _, _, svc := newOrderServiceFixture()

		o := paidOrder(t)
		orderRepo.On("FindByID", ctx, o.ID).Return(o, nil)

		_, err := svc.UpdateItemDeliveryStatus(ctx, UpdateDeliveryInput{
			OrderID: o.ID,
			ItemID:  uuid.New(),
			ActorID: sellerID,
			Status:  order.DeliveryShipped,
		})

		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
