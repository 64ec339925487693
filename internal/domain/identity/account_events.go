package identity

import (
	"github.com/marketplace/backend/internal/domain/shared"
)

// Aggregate type constant for Account
const AggregateTypeAccount = "Account"

// Account domain event types
const (
	EventTypeAccountRegistered = "AccountRegistered"
)

// AccountRegisteredEvent is published when an account is registered
type AccountRegisteredEvent struct {
	shared.BaseDomainEvent
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     AccountRole `json:"role"`
}

// NewAccountRegisteredEvent creates a new AccountRegisteredEvent
func NewAccountRegisteredEvent(account *Account) *AccountRegisteredEvent {
	return &AccountRegisteredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAccountRegistered, AggregateTypeAccount, account.ID, account.TenantID),
		Email:           account.Email,
		Username:        account.Username,
		Role:            account.Role,
	}
}
