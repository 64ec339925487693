package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/persistence/models"
)

// GormAccountRepository implements identity.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(ctx context.Context, account *identity.Account) error {
	m := models.AccountModelFromDomain(account)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Update updates an existing account
func (r *GormAccountRepository) Update(ctx context.Context, account *identity.Account) error {
	m := models.AccountModelFromDomain(account)
	return r.db.WithContext(ctx).Save(m).Error
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Account, error) {
	var m models.AccountModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByEmail finds an account by email within the tenant
func (r *GormAccountRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.Account, error) {
	var m models.AccountModel
	if err := r.db.WithContext(ctx).
		First(&m, "tenant_id = ? AND email = ?", tenantID, email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByUsername finds an account by username within the tenant
func (r *GormAccountRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.Account, error) {
	var m models.AccountModel
	if err := r.db.WithContext(ctx).
		First(&m, "tenant_id = ? AND username = ?", tenantID, username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// ExistsByEmail checks if an email is already registered for the tenant
func (r *GormAccountRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Where("tenant_id = ? AND email = ?", tenantID, email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
