package identity

import (
	"context"

	"github.com/google/uuid"
)

// AccountRepository defines the interface for account persistence
type AccountRepository interface {
	// Create creates a new account
	Create(ctx context.Context, account *Account) error

	// Update updates an existing account
	Update(ctx context.Context, account *Account) error

	// FindByID finds an account by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// FindByEmail finds an account by email within the tenant
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*Account, error)

	// FindByUsername finds an account by username within the tenant
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*Account, error)

	// ExistsByEmail checks if an email is already registered for the tenant
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error)
}
