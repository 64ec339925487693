package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
)

// GormPaymentRepository implements order.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save creates or updates a payment record
func (r *GormPaymentRepository) Save(ctx context.Context, p *order.Payment) error {
	m := models.PaymentModelFromDomain(p)
	return r.db.WithContext(ctx).Save(m).Error
}

// FindByID finds a payment by its ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Payment, error) {
	var m models.PaymentModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByTransactionID finds a payment by gateway transaction ID within
// the tenant
func (r *GormPaymentRepository) FindByTransactionID(ctx context.Context, tenantID uuid.UUID, transactionID string) (*order.Payment, error) {
	var m models.PaymentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND transaction_id = ?", tenantID, transactionID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// GetOrCreateByTransactionID returns the existing payment for the
// transaction ID or inserts the given one. The insert relies on the
// tenant+transaction unique index, so a concurrent duplicate resolves
// to the winning row.
func (r *GormPaymentRepository) GetOrCreateByTransactionID(ctx context.Context, p *order.Payment) (*order.Payment, bool, error) {
	existing, err := r.FindByTransactionID(ctx, p.TenantID, p.TransactionID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	m := models.PaymentModelFromDomain(p)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(m)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 0 {
		// lost the race, fetch the winner
		existing, err := r.FindByTransactionID(ctx, p.TenantID, p.TransactionID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return p, true, nil
}
