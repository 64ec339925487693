package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apporder "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/domain/payment"
)

// PaymentCallbackHandler handles payment gateway callback endpoints.
// These endpoints are called by external gateways on behalf of the
// buyer's redirect and do not require authentication.
type PaymentCallbackHandler struct {
	BaseHandler
	settlementService *apporder.SettlementService
}

// NewPaymentCallbackHandler creates a new PaymentCallbackHandler
func NewPaymentCallbackHandler(settlementService *apporder.SettlementService) *PaymentCallbackHandler {
	return &PaymentCallbackHandler{
		settlementService: settlementService,
	}
}

// PaymentCallbackResponse reports what processing the callback did
type PaymentCallbackResponse struct {
	Success          bool   `json:"success"`
	OrderNumber      string `json:"order_number,omitempty"`
	OrderStatus      string `json:"order_status,omitempty"`
	AlreadyProcessed bool   `json:"already_processed,omitempty"`
	Message          string `json:"message,omitempty"`
}

// HandleEsewaCallback processes the redirect eSewa sends the buyer
// back with. eSewa delivers the signed notification as a base64 `data`
// parameter, on GET for success redirects and on POST for failures.
func (h *PaymentCallbackHandler) HandleEsewaCallback(c *gin.Context) {
	payload := []byte(c.Query("data"))
	if len(payload) == 0 {
		payload = []byte(c.PostForm("data"))
	}
	if len(payload) == 0 {
		// Some eSewa environments post the raw base64 body directly
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			h.BadRequest(c, "Failed to read request body")
			return
		}
		payload = body
	}
	if len(payload) == 0 {
		h.BadRequest(c, "Missing callback payload")
		return
	}

	// The eSewa signature travels inside the payload itself
	h.handleCallback(c, payment.GatewayEsewa, payload, "")
}

func (h *PaymentCallbackHandler) handleCallback(c *gin.Context, gatewayType payment.GatewayType, payload []byte, signature string) {
	outcome, err := h.settlementService.ProcessCallback(
		c.Request.Context(),
		getTenantID(c),
		gatewayType,
		payload,
		signature,
	)
	if err != nil {
		if errors.Is(err, payment.ErrEventIgnored) {
			c.JSON(http.StatusOK, PaymentCallbackResponse{
				Success: true,
				Message: "Event acknowledged",
			})
			return
		}
		if errors.Is(err, payment.ErrSignatureMismatch) {
			c.JSON(http.StatusUnauthorized, PaymentCallbackResponse{
				Success: false,
				Message: "Signature verification failed",
			})
			return
		}
		h.HandleDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, PaymentCallbackResponse{
		Success:          true,
		OrderNumber:      outcome.OrderNumber,
		OrderStatus:      outcome.OrderStatus,
		AlreadyProcessed: outcome.Duplicate,
	})
}
