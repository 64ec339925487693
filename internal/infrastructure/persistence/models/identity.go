package models

import (
	"time"

	"github.com/marketplace/backend/internal/domain/identity"
)

// AccountModel is the persistence model for the Account aggregate root
type AccountModel struct {
	TenantAggregateModel
	Email        string               `gorm:"type:varchar(200);not null;uniqueIndex:idx_account_tenant_email,priority:2"`
	Username     string               `gorm:"type:varchar(100);not null;uniqueIndex:idx_account_tenant_username,priority:2"`
	FirstName    string               `gorm:"type:varchar(100)"`
	LastName     string               `gorm:"type:varchar(100)"`
	Phone        string               `gorm:"type:varchar(50)"`
	PasswordHash string               `gorm:"type:varchar(100);not null"`
	Role         identity.AccountRole `gorm:"type:varchar(20);not null;default:'buyer'"`
	Active       bool                 `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() *identity.Account {
	return &identity.Account{
		TenantAggregateRoot: m.ToDomainTenantAggregateRoot(),
		Email:               m.Email,
		Username:            m.Username,
		FirstName:           m.FirstName,
		LastName:            m.LastName,
		Phone:               m.Phone,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Active:              m.Active,
		LastLoginAt:         m.LastLoginAt,
	}
}

// FromDomain populates the persistence model from a domain Account
func (m *AccountModel) FromDomain(a *identity.Account) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Email = a.Email
	m.Username = a.Username
	m.FirstName = a.FirstName
	m.LastName = a.LastName
	m.Phone = a.Phone
	m.PasswordHash = a.PasswordHash
	m.Role = a.Role
	m.Active = a.Active
	m.LastLoginAt = a.LastLoginAt
}

// AccountModelFromDomain creates a new persistence model from a domain Account
func AccountModelFromDomain(a *identity.Account) *AccountModel {
	m := &AccountModel{}
	m.FromDomain(a)
	return m
}
