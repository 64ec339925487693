package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apporder "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/domain/payment"
)

// CheckoutHandler handles order placement HTTP requests
type CheckoutHandler struct {
	BaseHandler
	checkoutService *apporder.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *apporder.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// InitiatePaymentRequest selects the payment gateway for an order
type InitiatePaymentRequest struct {
	Gateway string `json:"gateway" binding:"required,oneof=esewa stripe"`
}

// PlaceOrder converts the buyer's cart into a pending order. Item
// names, prices and variation labels are snapshotted at this point.
func (h *CheckoutHandler) PlaceOrder(c *gin.Context) {
	buyerID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var input apporder.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}
	input.TenantID = getTenantID(c)
	input.BuyerID = buyerID
	input.IPAddress = c.ClientIP()

	info, err := h.checkoutService.PlaceOrder(c.Request.Context(), input)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, info)
}

// InitiatePayment starts a gateway payment for a placed order and
// returns the redirect instruction for the frontend
func (h *CheckoutHandler) InitiatePayment(c *gin.Context) {
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

	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	instruction, err := h.checkoutService.InitiatePayment(c.Request.Context(), apporder.InitiatePaymentInput{
		TenantID: getTenantID(c),
		BuyerID:  buyerID,
		OrderID:  orderID,
		Gateway:  payment.GatewayType(req.Gateway),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, instruction)
}

// CancelOrder cancels an order that has not been paid yet
func (h *CheckoutHandler) CancelOrder(c *gin.Context) {
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

	if err := h.checkoutService.CancelOrder(c.Request.Context(), getTenantID(c), buyerID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Order cancelled"})
}
