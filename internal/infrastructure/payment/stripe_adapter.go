package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"

	paymentdomain "github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// minorUnitFactor converts major currency units to Stripe's smallest
// unit representation
var minorUnitFactor = decimal.NewFromInt(100)

// StripeAdapter implements the Gateway interface on top of Stripe
// PaymentIntents. Initiation returns a client secret for the frontend
// SDK; settlement arrives through signed webhooks.
type StripeAdapter struct {
	config *config.StripeConfig
	logger *zap.Logger
}

// NewStripeAdapter creates a new Stripe adapter
func NewStripeAdapter(cfg *config.StripeConfig, logger *zap.Logger) (*StripeAdapter, error) {
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("stripe: secret key is required")
	}
	if cfg.WebhookSecret == "" {
		return nil, fmt.Errorf("stripe: webhook secret is required")
	}

	stripe.Key = cfg.SecretKey

	return &StripeAdapter{
		config: cfg,
		logger: logger,
	}, nil
}

// Type returns the gateway type
func (a *StripeAdapter) Type() paymentdomain.GatewayType {
	return paymentdomain.GatewayStripe
}

// Initiate creates a PaymentIntent for the order total. The order
// number travels in the intent metadata so the webhook can route the
// settlement back without any extra bookkeeping.
func (a *StripeAdapter) Initiate(ctx context.Context, req *paymentdomain.InitiateRequest) (*paymentdomain.RedirectInstruction, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.Total.Mul(minorUnitFactor).IntPart()),
		Currency: stripe.String(strings.ToLower(req.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		ReceiptEmail: stripe.String(req.BuyerEmail),
		Metadata: map[string]string{
			"order_id":     req.OrderID.String(),
			"order_number": req.OrderNumber,
		},
	}
	params.Context = ctx

	intent, err := paymentintent.New(params)
	if err != nil {
		a.logger.Error("failed to create payment intent",
			zap.String("order_number", req.OrderNumber),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", paymentdomain.ErrGatewayUnavailable, err)
	}

	a.logger.Info("created payment intent",
		zap.String("order_number", req.OrderNumber),
		zap.String("payment_intent_id", intent.ID))

	return &paymentdomain.RedirectInstruction{
		Gateway:        paymentdomain.GatewayStripe,
		ClientSecret:   intent.ClientSecret,
		PublishableKey: a.config.PublishableKey,
		TransactionID:  intent.ID,
	}, nil
}

// VerifyCallback authenticates a webhook delivery against the
// endpoint secret and normalizes the PaymentIntent outcome. The
// signature parameter carries the Stripe-Signature header value.
func (a *StripeAdapter) VerifyCallback(ctx context.Context, payload []byte, signature string) (*paymentdomain.SettlementResult, error) {
	event, err := webhook.ConstructEvent(payload, signature, a.config.WebhookSecret)
	if err != nil {
		a.logger.Warn("webhook signature verification failed", zap.Error(err))
		return nil, paymentdomain.ErrSignatureMismatch
	}

	return a.settlementFromEvent(&event)
}

// settlementFromEvent maps a verified Stripe event onto the
// normalized settlement vocabulary
func (a *StripeAdapter) settlementFromEvent(event *stripe.Event) (*paymentdomain.SettlementResult, error) {
	var status paymentdomain.SettlementStatus
	switch event.Type {
	case "payment_intent.succeeded":
		status = paymentdomain.SettlementComplete
	case "payment_intent.payment_failed":
		status = paymentdomain.SettlementFailed
	case "payment_intent.canceled":
		status = paymentdomain.SettlementCanceled
	case "payment_intent.processing":
		status = paymentdomain.SettlementPending
	default:
		a.logger.Debug("ignoring webhook event", zap.String("type", string(event.Type)))
		return nil, paymentdomain.ErrEventIgnored
	}

	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return nil, paymentdomain.ErrMalformedPayload
	}

	orderNumber := intent.Metadata["order_number"]
	if orderNumber == "" {
		return nil, paymentdomain.ErrMalformedPayload
	}

	amount := decimal.NewFromInt(intent.Amount).Div(minorUnitFactor)

	return &paymentdomain.SettlementResult{
		Gateway:       paymentdomain.GatewayStripe,
		OrderNumber:   orderNumber,
		TransactionID: intent.ID,
		Status:        status,
		Amount:        amount,
		Currency:      strings.ToUpper(string(intent.Currency)),
		RawPayload:    event.Data.Raw,
	}, nil
}

// Ensure StripeAdapter implements the Gateway interface
var _ paymentdomain.Gateway = (*StripeAdapter)(nil)
