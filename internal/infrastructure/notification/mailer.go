package notification

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"
	"text/template"

	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/infrastructure/config"
)

// Mailer sends transactional mail to buyers. Settlement calls it
// best-effort after the order state is committed.
type Mailer interface {
	SendOrderConfirmation(ctx context.Context, to string, o *order.Order) error
}

var confirmationTemplate = template.Must(template.New("order_confirmation").Parse(
	`Dear {{.Billing.FullName}},

Thank you for shopping with us. Your payment for order {{.OrderNumber}} has been received.

Order summary:
{{range .Items}}  - {{.ProductName}} x{{.Quantity}} ... {{.Amount}}
{{end}}
Subtotal: {{.Subtotal}}
Tax:      {{.Tax}}
Total:    {{.OrderTotal}}

We will notify you when your items ship.
`))

// SMTPMailer is the production mailer. It speaks plain SMTP with
// optional AUTH, matching what most transactional relays accept.
type SMTPMailer struct {
	config *config.SMTPConfig
	logger *zap.Logger

	// send is swappable for tests
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg *config.SMTPConfig, logger *zap.Logger) (*SMTPMailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp: host is required")
	}
	if cfg.From == "" {
		return nil, fmt.Errorf("smtp: from address is required")
	}

	return &SMTPMailer{
		config: cfg,
		logger: logger,
		send:   smtp.SendMail,
	}, nil
}

// SendOrderConfirmation renders and sends the payment confirmation
// for a settled order
func (m *SMTPMailer) SendOrderConfirmation(ctx context.Context, to string, o *order.Order) error {
	var body bytes.Buffer
	fmt.Fprintf(&body, "From: %s\r\n", m.config.From)
	fmt.Fprintf(&body, "To: %s\r\n", to)
	fmt.Fprintf(&body, "Subject: Order %s confirmed\r\n", o.OrderNumber)
	body.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")

	if err := confirmationTemplate.Execute(&body, o); err != nil {
		return fmt.Errorf("smtp: failed to render confirmation: %w", err)
	}

	var auth smtp.Auth
	if m.config.Username != "" {
		auth = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)
	if err := m.send(addr, auth, m.config.From, []string{to}, body.Bytes()); err != nil {
		return fmt.Errorf("smtp: failed to send confirmation: %w", err)
	}

	m.logger.Info("sent order confirmation",
		zap.String("order_number", o.OrderNumber),
		zap.String("to", to))
	return nil
}

// NoopMailer is used when SMTP is disabled. It logs instead of
// sending so local environments still show what would go out.
type NoopMailer struct {
	logger *zap.Logger
}

// NewNoopMailer creates a mailer that only logs
func NewNoopMailer(logger *zap.Logger) *NoopMailer {
	return &NoopMailer{logger: logger}
}

// SendOrderConfirmation logs the confirmation instead of sending it
func (m *NoopMailer) SendOrderConfirmation(ctx context.Context, to string, o *order.Order) error {
	m.logger.Info("mail disabled, skipping order confirmation",
		zap.String("order_number", o.OrderNumber),
		zap.String("to", to))
	return nil
}

// NewMailer picks the SMTP mailer when enabled, the noop mailer
// otherwise
func NewMailer(cfg *config.SMTPConfig, logger *zap.Logger) (Mailer, error) {
	if !cfg.Enabled {
		return NewNoopMailer(logger), nil
	}
	return NewSMTPMailer(cfg, logger)
}

var (
	_ Mailer = (*SMTPMailer)(nil)
	_ Mailer = (*NoopMailer)(nil)
)
