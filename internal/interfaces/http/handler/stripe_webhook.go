package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	apporder "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/domain/payment"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// StripeWebhookHandler handles Stripe webhook endpoints. These are
// called by Stripe servers and authenticate via signature, not JWT.
type StripeWebhookHandler struct {
	BaseHandler
	settlementService *apporder.SettlementService
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(settlementService *apporder.SettlementService) *StripeWebhookHandler {
	return &StripeWebhookHandler{
		settlementService: settlementService,
	}
}

// StripeWebhookResponse represents the response for Stripe webhook
type StripeWebhookResponse struct {
	Received    bool   `json:"received"`
	OrderNumber string `json:"order_number,omitempty"`
	Message     string `json:"message,omitempty"`
}

// HandleStripeWebhook verifies and applies a Stripe event. Processing
// errors other than a bad signature return 200 so Stripe does not
// retry events that will never succeed.
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Failed to read request body",
		})
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{
			Received: false,
			Message:  "Payload too large",
		})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{
			Received: false,
			Message:  "Missing Stripe-Signature header",
		})
		return
	}

	outcome, err := h.settlementService.ProcessCallback(
		c.Request.Context(),
		getTenantID(c),
		payment.GatewayStripe,
		payload,
		signature,
	)
	if err != nil {
		// A bad signature gets a 400 so Stripe flags the endpoint as
		// failing; no state was touched
		if errors.Is(err, payment.ErrSignatureMismatch) {
			c.JSON(http.StatusBadRequest, StripeWebhookResponse{
				Received: false,
				Message:  "Webhook signature verification failed",
			})
			return
		}
		if errors.Is(err, payment.ErrEventIgnored) {
			c.JSON(http.StatusOK, StripeWebhookResponse{
				Received: true,
				Message:  "Event type not relevant, ignored",
			})
			return
		}

		// Other processing errors still return 200 to stop retries
		// for events that won't be fixed by retrying
		c.JSON(http.StatusOK, StripeWebhookResponse{
			Received: true,
			Message:  "Webhook received but processing encountered an issue",
		})
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received:    true,
		OrderNumber: outcome.OrderNumber,
	})
}
