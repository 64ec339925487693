package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/interfaces/http/dto"
)

// OrderHandler handles order history and fulfilment HTTP requests
type OrderHandler struct {
	BaseHandler
	orderService *apporder.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *apporder.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// UpdateDeliveryRequest moves an order line's fulfilment forward
type UpdateDeliveryRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING PROCESSING SHIPPED DELIVERED CANCELLED"`
}

// GetReceipt returns one of the buyer's orders with its payment record
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	buyerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	info, err := h.orderService.GetReceipt(c.Request.Context(), getTenantID(c), buyerID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, info)
}

// GetCompletedReceipt serves the post-payment landing lookup. The
// gateway redirect sends the buyer back with the order number and,
// for eSewa, the payment id as query parameters.
func (h *OrderHandler) GetCompletedReceipt(c *gin.Context) {
	buyerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderNumber := c.Query("order_number")
	if orderNumber == "" {
		h.BadRequest(c, "Missing order number")
		return
	}

	paymentID := uuid.Nil
	if raw := c.Query("payment_id"); raw != "" {
		if paymentID, err = uuid.Parse(raw); err != nil {
			h.BadRequest(c, "Invalid payment ID")
			return
		}
	}

	info, err := h.orderService.GetCompletedReceipt(c.Request.Context(), getTenantID(c), buyerID, orderNumber, paymentID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, info)
}

// ListOrders returns the buyer's order history, newest first
func (h *OrderHandler) ListOrders(c *gin.Context) {
	buyerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid query parameters")
		return
	}

	page, err := h.orderService.ListBuyerOrders(c.Request.Context(), getTenantID(c), buyerID, req.Page, req.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Orders, page.TotalCount, page.Page, page.PageSize)
}

// UpdateDeliveryStatus advances one order line's delivery status. Only
// the seller who owns the underlying product, or an admin, may do this.
func (h *OrderHandler) UpdateDeliveryStatus(c *gin.Context) {
	actorID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("itemId"))
	if err != nil {
		h.BadRequest(c, "Invalid order item ID")
		return
	}

	var req UpdateDeliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	item, err := h.orderService.UpdateItemDeliveryStatus(c.Request.Context(), apporder.UpdateDeliveryInput{
		OrderID:      orderID,
		ItemID:       itemID,
		ActorID:      actorID,
		ActorIsAdmin: isAdmin(c),
		Status:       order.DeliveryStatus(req.Status),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}
