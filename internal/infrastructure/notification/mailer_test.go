package notification

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

func settledOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(uuid.New(), uuid.New(), order.BillingDetails{
		FirstName: "Gita",
		LastName:  "Thapa",
		Email:     "gita@example.com",
	})
	require.NoError(t, err)
	require.NoError(t, o.AddItem(uuid.New(), "Pashmina shawl", decimal.NewFromInt(100), 2, nil))
	require.NoError(t, o.Place())
	o.OrderNumber = "20260829007"
	return o
}

func TestSMTPMailer_SendOrderConfirmation(t *testing.T) {
	mailer, err := NewSMTPMailer(&config.SMTPConfig{
		Host: "mail.example.com",
		Port: 587,
		From: "orders@example.com",
	}, zap.NewNop())
	require.NoError(t, err)

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	mailer.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	o := settledOrder(t)
	require.NoError(t, mailer.SendOrderConfirmation(context.Background(), "gita@example.com", o))

	assert.Equal(t, "mail.example.com:587", gotAddr)
	assert.Equal(t, "orders@example.com", gotFrom)
	assert.Equal(t, []string{"gita@example.com"}, gotTo)

	body := string(gotMsg)
	assert.Contains(t, body, "Subject: Order 20260829007 confirmed")
	assert.Contains(t, body, "Dear Gita Thapa")
	assert.Contains(t, body, "Pashmina shawl x2")
	assert.Contains(t, body, "Subtotal: 200")
	assert.Contains(t, body, "Tax:      4")
	assert.Contains(t, body, "Total:    204")
}

func TestNewSMTPMailer_Validation(t *testing.T) {
	_, err := NewSMTPMailer(&config.SMTPConfig{From: "x@example.com"}, zap.NewNop())
	assert.Error(t, err, "missing host should fail")

	_, err = NewSMTPMailer(&config.SMTPConfig{Host: "mail.example.com"}, zap.NewNop())
	assert.Error(t, err, "missing from should fail")
}

func TestNewMailer_DisabledFallsBackToNoop(t *testing.T) {
	mailer, err := NewMailer(&config.SMTPConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	_, ok := mailer.(*NoopMailer)
	assert.True(t, ok)
	assert.NoError(t, mailer.SendOrderConfirmation(context.Background(), "x@example.com", settledOrder(t)))
}
