package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/notification"
)

// ErrOrderNotFound is returned when a callback references an order
// number that does not exist in the tenant
var ErrOrderNotFound = shared.NewDomainError("ORDER_NOT_FOUND", "No order matches the callback reference")

// SettlementService reconciles verified gateway callbacks against
// orders. Each callback is deduplicated on its gateway transaction ID,
// then applied inside one transaction: payment record, order state,
// stock decrement and cart clearing commit or roll back together.
type SettlementService struct {
	gateways    *payment.Registry
	txScope     TransactionScope
	idempotency shared.IdempotencyStore
	idemCfg     shared.IdempotencyConfig
	mailer      notification.Mailer
	logger      *zap.Logger
}

// NewSettlementService creates a new settlement service
func NewSettlementService(
	gateways *payment.Registry,
	txScope TransactionScope,
	idempotency shared.IdempotencyStore,
	idemCfg shared.IdempotencyConfig,
	mailer notification.Mailer,
	logger *zap.Logger,
) *SettlementService {
	return &SettlementService{
		gateways:    gateways,
		txScope:     txScope,
		idempotency: idempotency,
		idemCfg:     idemCfg,
		mailer:      mailer,
		logger:      logger,
	}
}

// ProcessCallback verifies an inbound gateway notification and applies
// its outcome to the referenced order. Replays of an already-settled
// transaction succeed without touching the order again.
func (s *SettlementService) ProcessCallback(
	ctx context.Context,
	tenantID uuid.UUID,
	gatewayType payment.GatewayType,
	payload []byte,
	signature string,
) (*SettlementOutcome, error) {
	gateway, err := s.gateways.Get(gatewayType)
	if err != nil {
		return nil, err
	}

	result, err := gateway.VerifyCallback(ctx, payload, signature)
	if err != nil {
		if !errors.Is(err, payment.ErrEventIgnored) {
			s.logger.Warn("Callback verification failed",
				zap.String("gateway", string(gatewayType)),
				zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("Payment callback received",
		zap.String("gateway", string(result.Gateway)),
		zap.String("order_number", result.OrderNumber),
		zap.String("transaction_id", result.TransactionID),
		zap.String("status", string(result.Status)),
		zap.String("amount", result.Amount.String()))

	key := idempotencyKey(result)
	if s.idemCfg.Enabled {
		first, err := s.idempotency.MarkProcessed(ctx, key, s.idemCfg.TTL)
		if err != nil {
			return nil, err
		}
		if !first {
			s.logger.Info("Callback already processed",
				zap.String("idempotency_key", key))
			return &SettlementOutcome{OrderNumber: result.OrderNumber, Duplicate: true}, nil
		}
	}

	outcome, err := s.apply(ctx, tenantID, result)
	if err != nil {
		// free the key so the gateway's retry can succeed
		if s.idemCfg.Enabled {
			if relErr := s.idempotency.Release(ctx, key); relErr != nil {
				s.logger.Warn("Failed to release idempotency key",
					zap.String("idempotency_key", key),
					zap.Error(relErr))
			}
		}
		s.logger.Error("Settlement failed",
			zap.String("order_number", result.OrderNumber),
			zap.Error(err))
		return nil, err
	}

	return outcome, nil
}

// apply runs the settlement transaction for a verified result
func (s *SettlementService) apply(ctx context.Context, tenantID uuid.UUID, result *payment.SettlementResult) (*SettlementOutcome, error) {
	var (
		outcome   *SettlementOutcome
		confirmTo string
		settled   *order.Order
	)

	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		o, err := repos.OrderRepo().FindByOrderNumber(ctx, tenantID, result.OrderNumber)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		o, err = repos.OrderRepo().FindByIDForUpdate(ctx, o.ID)
		if err != nil {
			return err
		}

		// A replay that slipped past the idempotency store still
		// resolves cleanly against the persisted state.
		if o.IsOrdered() {
			outcome = &SettlementOutcome{
				OrderNumber: o.OrderNumber,
				OrderStatus: o.Status.String(),
				Duplicate:   result.Status == payment.SettlementComplete,
			}
			return nil
		}

		switch result.Status {
		case payment.SettlementComplete:
			if err := s.settle(ctx, repos, o, result); err != nil {
				return err
			}
			settled = o
			confirmTo = o.Billing.Email

		case payment.SettlementFailed:
			if err := o.MarkFailed(); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
				return err
			}

		case payment.SettlementCanceled:
			if err := o.Cancel(); err != nil {
				return err
			}
			if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
				return err
			}

		default:
			// PENDING and AMBIGUOUS outcomes leave the order awaiting a
			// definitive callback
			s.logger.Info("Callback left order pending",
				zap.String("order_number", o.OrderNumber),
				zap.String("status", string(result.Status)))
		}

		outcome = &SettlementOutcome{
			OrderNumber: o.OrderNumber,
			OrderStatus: o.Status.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if settled != nil {
		// confirmation mail is best-effort; the settlement is committed
		if mailErr := s.mailer.SendOrderConfirmation(ctx, confirmTo, settled); mailErr != nil {
			s.logger.Warn("Order confirmation mail failed",
				zap.String("order_number", settled.OrderNumber),
				zap.Error(mailErr))
		}
	}

	return outcome, nil
}

// settle records the completed payment, moves the order to PAID,
// decrements stock and clears the buyer's cart
func (s *SettlementService) settle(ctx context.Context, repos TransactionalRepositories, o *order.Order, result *payment.SettlementResult) error {
	transactionID := result.TransactionID
	if transactionID == "" {
		// some gateways omit their reference on redirect callbacks
		transactionID = fmt.Sprintf("%s-%s", result.Gateway, o.ID)
	}

	p, err := order.NewPayment(o.TenantID, o.BuyerID, result.Gateway,
		transactionID, methodLabel(result.Gateway), result.Amount, result.Currency)
	if err != nil {
		return err
	}

	p, created, err := repos.PaymentRepo().GetOrCreateByTransactionID(ctx, p)
	if err != nil {
		return err
	}
	if err := p.Complete(); err != nil {
		return err
	}
	if err := repos.PaymentRepo().Save(ctx, p); err != nil {
		return err
	}

	if err := o.Settle(p); err != nil {
		return err
	}

	for i := range o.Items {
		item := &o.Items[i]
		if err := repos.ProductRepo().DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}

	if err := repos.CartRepo().ClearByBuyer(ctx, o.TenantID, o.BuyerID); err != nil {
		return err
	}

	if err := repos.OrderRepo().SaveWithLock(ctx, o); err != nil {
		return err
	}

	s.logger.Info("Order settled",
		zap.String("order_number", o.OrderNumber),
		zap.String("transaction_id", p.TransactionID),
		zap.String("amount", p.Amount.String()),
		zap.Bool("payment_created", created))

	return nil
}

func idempotencyKey(result *payment.SettlementResult) string {
	reference := result.TransactionID
	if reference == "" {
		reference = result.OrderNumber
	}
	return fmt.Sprintf("%s:%s", result.Gateway, reference)
}

func methodLabel(gateway payment.GatewayType) string {
	switch gateway {
	case payment.GatewayEsewa:
		return "eSewa"
	case payment.GatewayStripe:
		return "Stripe"
	}
	return string(gateway)
}
