package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/marketplace/backend/internal/domain/shared"
)

// GatewayType identifies a payment gateway
type GatewayType string

const (
	GatewayEsewa  GatewayType = "esewa"
	GatewayStripe GatewayType = "stripe"
)

// SettlementStatus is the normalized outcome a gateway reports for a
// transaction. Every adapter maps its own vocabulary onto these.
type SettlementStatus string

const (
	SettlementPending  SettlementStatus = "PENDING"
	SettlementComplete SettlementStatus = "COMPLETE"
	SettlementFailed   SettlementStatus = "FAILED"
	SettlementCanceled SettlementStatus = "CANCELED"
)

// Gateway errors. Callers can distinguish a tampered callback from a
// payment the gateway itself declined.
var (
	ErrMalformedPayload   = shared.NewDomainError("MALFORMED_PAYLOAD", "Callback payload could not be parsed")
	ErrSignatureMismatch  = shared.NewDomainError("SIGNATURE_MISMATCH", "Callback signature verification failed")
	ErrEventIgnored       = shared.NewDomainError("EVENT_IGNORED", "Callback event type is not relevant for settlement")
	ErrGatewayUnavailable = shared.NewDomainError("GATEWAY_UNAVAILABLE", "Payment gateway request failed")
	ErrUnknownGateway     = shared.NewDomainError("UNKNOWN_GATEWAY", "No adapter registered for this gateway")
)

// InitiateRequest carries everything a gateway needs to start a payment
type InitiateRequest struct {
	OrderID     uuid.UUID
	OrderNumber string
	BuyerEmail  string
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
	Currency    string
}

// RedirectInstruction tells the frontend how to hand the buyer to the
// gateway. Exactly one of the variants is populated:
//   - form-post gateways set FormURL and Fields
//   - SDK gateways set ClientSecret and PublishableKey
type RedirectInstruction struct {
	Gateway GatewayType `json:"gateway"`

	// Form-post variant
	FormURL string            `json:"form_url,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`

	// SDK variant
	ClientSecret   string `json:"client_secret,omitempty"`
	PublishableKey string `json:"publishable_key,omitempty"`

	// TransactionID is the gateway-side reference assigned at initiation,
	// empty for gateways that only assign one on callback
	TransactionID string `json:"transaction_id,omitempty"`
}

// SettlementResult is the verified, normalized content of a gateway
// callback or webhook
type SettlementResult struct {
	Gateway       GatewayType
	OrderNumber   string
	TransactionID string
	Status        SettlementStatus
	Amount        decimal.Decimal
	Currency      string
	RawPayload    []byte
}

// Gateway is the single port every payment provider implements.
// Initiate starts a payment for an order; VerifyCallback authenticates
// an inbound notification and normalizes it to a SettlementResult.
type Gateway interface {
	Type() GatewayType
	Initiate(ctx context.Context, req *InitiateRequest) (*RedirectInstruction, error)
	VerifyCallback(ctx context.Context, payload []byte, signature string) (*SettlementResult, error)
}

// Registry holds the configured gateways keyed by type
type Registry struct {
	gateways map[GatewayType]Gateway
}

// NewRegistry creates a registry from the given gateways
func NewRegistry(gateways ...Gateway) *Registry {
	r := &Registry{gateways: make(map[GatewayType]Gateway, len(gateways))}
	for _, g := range gateways {
		r.gateways[g.Type()] = g
	}
	return r
}

// Get returns the gateway for the given type
func (r *Registry) Get(t GatewayType) (Gateway, error) {
	g, ok := r.gateways[t]
	if !ok {
		return nil, ErrUnknownGateway
	}
	return g, nil
}

// Types returns the registered gateway types
func (r *Registry) Types() []GatewayType {
	types := make([]GatewayType, 0, len(r.gateways))
	for t := range r.gateways {
		types = append(types, t)
	}
	return types
}
