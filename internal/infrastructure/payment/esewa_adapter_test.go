package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentdomain "github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// test secret published in eSewa's UAT documentation
const esewaTestSecret = "8gBm/:&EnhH.1/q"

func newTestEsewaAdapter(t *testing.T) *EsewaAdapter {
	t.Helper()

	adapter, err := NewEsewaAdapter(&config.EsewaConfig{
		ProductCode: "EPAYTEST",
		SecretKey:   esewaTestSecret,
		FormURL:     "https://rc-epay.esewa.com.np/api/epay/main/v2/form",
		SuccessURL:  "https://shop.example.com/payment/callback/esewa",
		FailureURL:  "https://shop.example.com/payment/callback/esewa",
	})
	require.NoError(t, err)
	return adapter
}

// esewaTestSign is an independent HMAC implementation for building
// callback fixtures
func esewaTestSign(message string) string {
	mac := hmac.New(sha256.New, []byte(esewaTestSecret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func encodeEsewaCallback(t *testing.T, n esewaNotification) []byte {
	t.Helper()

	fields := strings.Split(n.SignedFieldNames, ",")
	values := map[string]string{
		"transaction_code":   n.TransactionCode,
		"status":             n.Status,
		"total_amount":       n.TotalAmount,
		"transaction_uuid":   n.TransactionUUID,
		"product_code":       n.ProductCode,
		"signed_field_names": n.SignedFieldNames,
	}
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, fmt.Sprintf("%s=%s", f, values[f]))
	}
	n.Signature = esewaTestSign(strings.Join(pairs, ","))

	body, err := json.Marshal(n)
	require.NoError(t, err)
	return []byte(base64.StdEncoding.EncodeToString(body))
}

func completeNotification() esewaNotification {
	return esewaNotification{
		TransactionCode:  "000ABC",
		Status:           "COMPLETE",
		TotalAmount:      "1,020.0",
		TransactionUUID:  "20260829001-abcd1234",
		ProductCode:      "EPAYTEST",
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
	}
}

func TestNewEsewaAdapter(t *testing.T) {
	t.Run("rejects missing secret key", func(t *testing.T) {
		_, err := NewEsewaAdapter(&config.EsewaConfig{
			ProductCode: "EPAYTEST",
			FormURL:     "https://example.com",
		})
		assert.Error(t, err)
	})

	t.Run("rejects missing product code", func(t *testing.T) {
		_, err := NewEsewaAdapter(&config.EsewaConfig{
			SecretKey: esewaTestSecret,
			FormURL:   "https://example.com",
		})
		assert.Error(t, err)
	})
}

func TestEsewaAdapter_Sign(t *testing.T) {
	adapter := newTestEsewaAdapter(t)

	// known-answer vectors computed against eSewa's UAT credentials
	tests := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "documentation example",
			message:  "total_amount=1000,transaction_uuid=ORD1-abcd1234,product_code=EPAYTEST",
			expected: "BtdtpjzwkULzC2aFeCNaZw5DYui+wjYq7Uw8Q3CzxhI=",
		},
		{
			name:     "taxed order total",
			message:  "total_amount=204,transaction_uuid=ORD1-abcd1234,product_code=EPAYTEST",
			expected: "BdDIezn0iJM7C0UCdJYt2QnpMZM05SPReP5YGzNnYDI=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.sign(tt.message))
		})
	}
}

func TestEsewaAdapter_Initiate(t *testing.T) {
	adapter := newTestEsewaAdapter(t)
	ctx := context.Background()

	req := &paymentdomain.InitiateRequest{
		OrderNumber: "20260829001",
		Subtotal:    decimal.NewFromInt(200),
		Tax:         decimal.NewFromInt(4),
		Total:       decimal.NewFromInt(204),
		Currency:    "NPR",
	}

	instruction, err := adapter.Initiate(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, paymentdomain.GatewayEsewa, instruction.Gateway)
	assert.Equal(t, "https://rc-epay.esewa.com.np/api/epay/main/v2/form", instruction.FormURL)
	assert.Empty(t, instruction.ClientSecret)

	t.Run("amounts are split out for the form", func(t *testing.T) {
		assert.Equal(t, "200", instruction.Fields["amount"])
		assert.Equal(t, "4", instruction.Fields["tax_amount"])
		assert.Equal(t, "204", instruction.Fields["total_amount"])
		assert.Equal(t, "0", instruction.Fields["product_service_charge"])
		assert.Equal(t, "0", instruction.Fields["product_delivery_charge"])
		assert.Equal(t, "EPAYTEST", instruction.Fields["product_code"])
	})

	t.Run("transaction uuid embeds the order number", func(t *testing.T) {
		uuid := instruction.Fields["transaction_uuid"]
		assert.Equal(t, instruction.TransactionID, uuid)
		require.True(t, strings.HasPrefix(uuid, "20260829001-"))
		assert.Len(t, strings.TrimPrefix(uuid, "20260829001-"), 8)
	})

	t.Run("signature covers the advertised fields", func(t *testing.T) {
		assert.Equal(t, "total_amount,transaction_uuid,product_code", instruction.Fields["signed_field_names"])

		message := fmt.Sprintf("total_amount=%s,transaction_uuid=%s,product_code=%s",
			instruction.Fields["total_amount"],
			instruction.Fields["transaction_uuid"],
			instruction.Fields["product_code"])
		assert.Equal(t, esewaTestSign(message), instruction.Fields["signature"])
	})

	t.Run("retries get distinct transaction uuids", func(t *testing.T) {
		second, err := adapter.Initiate(ctx, req)
		require.NoError(t, err)
		assert.NotEqual(t, instruction.TransactionID, second.TransactionID)
	})
}

func TestEsewaAdapter_VerifyCallback(t *testing.T) {
	adapter := newTestEsewaAdapter(t)
	ctx := context.Background()

	t.Run("accepts a signed COMPLETE callback", func(t *testing.T) {
		payload := encodeEsewaCallback(t, completeNotification())

		result, err := adapter.VerifyCallback(ctx, payload, "")
		require.NoError(t, err)

		assert.Equal(t, paymentdomain.GatewayEsewa, result.Gateway)
		assert.Equal(t, paymentdomain.SettlementComplete, result.Status)
		assert.Equal(t, "20260829001", result.OrderNumber)
		assert.Equal(t, "000ABC", result.TransactionID)
		assert.Equal(t, "NPR", result.Currency)
		assert.True(t, result.Amount.Equal(decimal.NewFromFloat(1020.0)), "amount %s", result.Amount)
	})

	t.Run("strips thousands separators from the amount", func(t *testing.T) {
		n := completeNotification()
		n.TotalAmount = "12,345.5"
		payload := encodeEsewaCallback(t, n)

		result, err := adapter.VerifyCallback(ctx, payload, "")
		require.NoError(t, err)
		assert.True(t, result.Amount.Equal(decimal.NewFromFloat(12345.5)))
	})

	t.Run("maps gateway statuses", func(t *testing.T) {
		tests := []struct {
			status   string
			expected paymentdomain.SettlementStatus
		}{
			{"COMPLETE", paymentdomain.SettlementComplete},
			{"PENDING", paymentdomain.SettlementPending},
			{"AMBIGUOUS", paymentdomain.SettlementPending},
			{"NOT_FOUND", paymentdomain.SettlementFailed},
			{"FAILURE", paymentdomain.SettlementFailed},
			{"CANCELED", paymentdomain.SettlementCanceled},
		}

		for _, tt := range tests {
			t.Run(tt.status, func(t *testing.T) {
				n := completeNotification()
				n.Status = tt.status
				payload := encodeEsewaCallback(t, n)

				result, err := adapter.VerifyCallback(ctx, payload, "")
				require.NoError(t, err)
				assert.Equal(t, tt.expected, result.Status)
			})
		}
	})

	t.Run("rejects a tampered amount", func(t *testing.T) {
		n := completeNotification()
		payload := encodeEsewaCallback(t, n)

		decoded, err := base64.StdEncoding.DecodeString(string(payload))
		require.NoError(t, err)
		tampered := strings.Replace(string(decoded), "1,020.0", "1.0", 1)
		payload = []byte(base64.StdEncoding.EncodeToString([]byte(tampered)))

		_, err = adapter.VerifyCallback(ctx, payload, "")
		assert.ErrorIs(t, err, paymentdomain.ErrSignatureMismatch)
	})

	t.Run("rejects a foreign signature", func(t *testing.T) {
		n := completeNotification()
		n.SignedFieldNames = "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names"
		payload := encodeEsewaCallback(t, n)

		_, err := adapter.VerifyCallback(ctx, payload, "definitely-not-a-signature")
		assert.ErrorIs(t, err, paymentdomain.ErrSignatureMismatch)
	})

	t.Run("rejects garbage payloads", func(t *testing.T) {
		_, err := adapter.VerifyCallback(ctx, []byte("not base64!!"), "")
		assert.ErrorIs(t, err, paymentdomain.ErrMalformedPayload)

		_, err = adapter.VerifyCallback(ctx, []byte(base64.StdEncoding.EncodeToString([]byte("not json"))), "")
		assert.ErrorIs(t, err, paymentdomain.ErrMalformedPayload)
	})
}
