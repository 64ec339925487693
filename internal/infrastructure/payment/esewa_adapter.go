package payment

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	paymentdomain "github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// EsewaAdapter implements the Gateway interface for eSewa's ePay v2
// form-post flow. The buyer is redirected to eSewa with a signed form;
// eSewa calls back with a base64-encoded JSON body that carries its
// own signature.
type EsewaAdapter struct {
	config *config.EsewaConfig
}

// NewEsewaAdapter creates a new eSewa adapter
func NewEsewaAdapter(cfg *config.EsewaConfig) (*EsewaAdapter, error) {
	if cfg.ProductCode == "" {
		return nil, fmt.Errorf("esewa: product code is required")
	}
	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("esewa: secret key is required")
	}
	if cfg.FormURL == "" {
		return nil, fmt.Errorf("esewa: form URL is required")
	}

	return &EsewaAdapter{config: cfg}, nil
}

// Type returns the gateway type
func (a *EsewaAdapter) Type() paymentdomain.GatewayType {
	return paymentdomain.GatewayEsewa
}

// Initiate builds the signed form the frontend posts to eSewa.
// The transaction UUID embeds the order number so the callback can be
// routed back to the order without a gateway-side lookup.
func (a *EsewaAdapter) Initiate(ctx context.Context, req *paymentdomain.InitiateRequest) (*paymentdomain.RedirectInstruction, error) {
	transactionUUID, err := newTransactionUUID(req.OrderNumber)
	if err != nil {
		return nil, fmt.Errorf("esewa: failed to generate transaction uuid: %w", err)
	}

	totalAmount := req.Total.String()
	signature := a.sign(fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
		totalAmount, transactionUUID, a.config.ProductCode))

	fields := map[string]string{
		"amount":                  req.Subtotal.String(),
		"tax_amount":              req.Tax.String(),
		"total_amount":            totalAmount,
		"transaction_uuid":        transactionUUID,
		"product_code":            a.config.ProductCode,
		"product_service_charge":  "0",
		"product_delivery_charge": "0",
		"success_url":             a.config.SuccessURL,
		"failure_url":             a.config.FailureURL,
		"signed_field_names":      esewaSignedFieldNames,
		"signature":               signature,
	}

	return &paymentdomain.RedirectInstruction{
		Gateway:       paymentdomain.GatewayEsewa,
		FormURL:       a.config.FormURL,
		Fields:        fields,
		TransactionID: transactionUUID,
	}, nil
}

// VerifyCallback decodes the base64 JSON body eSewa posts back,
// verifies its signature over the advertised signed field names, and
// normalizes the outcome.
func (a *EsewaAdapter) VerifyCallback(ctx context.Context, payload []byte, signature string) (*paymentdomain.SettlementResult, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(payload)))
	if err != nil {
		return nil, paymentdomain.ErrMalformedPayload
	}

	var n esewaNotification
	if err := json.Unmarshal(decoded, &n); err != nil {
		return nil, paymentdomain.ErrMalformedPayload
	}
	if n.TransactionUUID == "" || n.Status == "" {
		return nil, paymentdomain.ErrMalformedPayload
	}

	if signature == "" {
		signature = n.Signature
	}
	if !a.verifySign(&n, signature) {
		return nil, paymentdomain.ErrSignatureMismatch
	}

	// eSewa formats amounts with thousands separators in callbacks
	amount, err := decimal.NewFromString(strings.ReplaceAll(n.TotalAmount, ",", ""))
	if err != nil {
		return nil, paymentdomain.ErrMalformedPayload
	}

	return &paymentdomain.SettlementResult{
		Gateway:       paymentdomain.GatewayEsewa,
		OrderNumber:   orderNumberFromTransactionUUID(n.TransactionUUID),
		TransactionID: n.TransactionCode,
		Status:        mapEsewaStatus(n.Status),
		Amount:        amount,
		Currency:      "NPR",
		RawPayload:    decoded,
	}, nil
}

// sign computes base64(HMAC-SHA256(secret, message))
func (a *EsewaAdapter) sign(message string) string {
	mac := hmac.New(sha256.New, []byte(a.config.SecretKey))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// verifySign recomputes the callback signature over the fields the
// notification claims were signed, in their advertised order.
func (a *EsewaAdapter) verifySign(n *esewaNotification, signature string) bool {
	if signature == "" || n.SignedFieldNames == "" {
		return false
	}

	values := map[string]string{
		"transaction_code":   n.TransactionCode,
		"status":             n.Status,
		"total_amount":       n.TotalAmount,
		"transaction_uuid":   n.TransactionUUID,
		"product_code":       n.ProductCode,
		"signed_field_names": n.SignedFieldNames,
	}

	fields := strings.Split(n.SignedFieldNames, ",")
	pairs := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		pairs = append(pairs, fmt.Sprintf("%s=%s", field, values[field]))
	}

	expected := a.sign(strings.Join(pairs, ","))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// newTransactionUUID derives a gateway reference from the order number
// plus a random suffix, so retried payments for the same order stay
// distinguishable.
func newTransactionUUID(orderNumber string) (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}
	return orderNumber + "-" + hex.EncodeToString(suffix), nil
}

// orderNumberFromTransactionUUID strips the random suffix added at
// initiation
func orderNumberFromTransactionUUID(transactionUUID string) string {
	if i := strings.LastIndex(transactionUUID, "-"); i > 0 {
		return transactionUUID[:i]
	}
	return transactionUUID
}

// Ensure EsewaAdapter implements the Gateway interface
var _ paymentdomain.Gateway = (*EsewaAdapter)(nil)
