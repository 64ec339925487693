package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/marketplace/backend/internal/domain/order"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
)

// GormOrderRepository implements order.OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// orderNumberRetries bounds how often Save re-derives the order number
// after losing an allocation race to a concurrent placement.
const orderNumberRetries = 3

// Save creates or updates an order with its items. A freshly placed
// order gets its order number assigned here, in the same transaction
// as the insert.
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	assignNumber := o.OrderNumber == "" && o.Status != order.StatusDraft

	var err error
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if assignNumber {
				number, genErr := generateOrderNumber(ctx, tx, o.TenantID, time.Now())
				if genErr != nil {
					return genErr
				}
				o.OrderNumber = number
			}

			m := models.OrderModelFromDomain(o)
			if err := tx.Omit("Items", "Payment").Save(m).Error; err != nil {
				return err
			}

			return saveOrderItems(tx, o)
		})
		if err == nil {
			return nil
		}
		// The select-max draw is not serialized, so a concurrent
		// placement can take the same number first. Re-derive and retry.
		if assignNumber && isUniqueViolation(err) {
			o.OrderNumber = ""
			continue
		}
		return err
	}

	return shared.ErrConcurrencyConflict
}

// SaveWithLock saves with optimistic locking. Domain mutations bump
// the aggregate version, so the row must still be at Version-1 for
// the update to land.
func (r *GormOrderRepository) SaveWithLock(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		o.Touch()

		result := tx.Model(&models.OrderModel{}).
			Where("id = ? AND version = ?", o.ID, o.Version-1).
			Updates(map[string]interface{}{
				"order_number": o.OrderNumber,
				"subtotal":     o.Subtotal,
				"tax":          o.Tax,
				"order_total":  o.OrderTotal,
				"status":       o.Status,
				"payment_id":   o.PaymentID,
				"version":      o.Version,
				"updated_at":   o.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		return saveOrderItems(tx, o)
	})
}

func saveOrderItems(tx *gorm.DB, o *order.Order) error {
	if len(o.Items) == 0 {
		return tx.Where("order_id = ?", o.ID).Delete(&models.OrderItemModel{}).Error
	}

	currentItemIDs := make([]uuid.UUID, len(o.Items))
	for i, item := range o.Items {
		currentItemIDs[i] = item.ID
	}
	if err := tx.Where("order_id = ? AND id NOT IN ?", o.ID, currentItemIDs).
		Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}

	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		m := models.OrderItemModelFromDomain(&o.Items[i])
		if err := tx.Save(m).Error; err != nil {
			return err
		}
	}
	return nil
}

// FindByID finds an order by its ID, items and payment included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByIDForUpdate loads the order under a row lock. The caller must
// run it inside a transaction for the lock to mean anything.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}

	// preloads are issued separately so the lock stays on the orders row
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", m.ID).
		Find(&m.Items).Error; err != nil {
		return nil, err
	}

	return m.ToDomain(), nil
}

// FindByOrderNumber finds an order by its business number within the tenant
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, tenantID uuid.UUID, orderNumber string) (*order.Order, error) {
	var m models.OrderModel
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Payment").
		Where("tenant_id = ? AND order_number = ?", tenantID, orderNumber).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByBuyer returns the buyer's orders, newest first
func (r *GormOrderRepository) FindByBuyer(ctx context.Context, tenantID, buyerID uuid.UUID, page, pageSize int) ([]*order.Order, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	query := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("tenant_id = ? AND buyer_id = ?", tenantID, buyerID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var ms []models.OrderModel
	if err := query.
		Preload("Items").
		Preload("Payment").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&ms).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]*order.Order, len(ms))
	for i := range ms {
		orders[i] = ms[i].ToDomain()
	}
	return orders, total, nil
}

// GenerateOrderNumber produces the next order number for the day,
// formatted YYYYMMDD followed by a zero-padded sequence.
func (r *GormOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID, date time.Time) (string, error) {
	return generateOrderNumber(ctx, r.db, tenantID, date)
}

func generateOrderNumber(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, date time.Time) (string, error) {
	prefix := date.Format("20060102")

	// Sequences past 999 outgrow the 3-digit padding, so a plain
	// lexicographic max would rank ...999 above ...1000 and re-issue
	// taken numbers. Ordering by length first keeps the longer (and
	// therefore larger) sequence on top.
	var lastNumber string
	err := db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ? AND order_number LIKE ?", tenantID, prefix+"%").
		Order("LENGTH(order_number) DESC, order_number DESC").
		Limit(1).
		Pluck("order_number", &lastNumber).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextSeq int64 = 1
	if strings.HasPrefix(lastNumber, prefix) {
		var seq int64
		if _, parseErr := fmt.Sscanf(lastNumber[len(prefix):], "%d", &seq); parseErr == nil {
			nextSeq = seq + 1
		}
	}

	return fmt.Sprintf("%s%03d", prefix, nextSeq), nil
}

// UpdateItemDeliveryStatus persists a single line's delivery status
func (r *GormOrderRepository) UpdateItemDeliveryStatus(ctx context.Context, item *order.OrderItem) error {
	result := r.db.WithContext(ctx).
		Model(&models.OrderItemModel{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"delivery_status": item.DeliveryStatus,
			"updated_at":      item.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
