package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/marketplace/backend/internal/domain/identity"
)

// RegisterInput contains the input for account registration
type RegisterInput struct {
	TenantID  uuid.UUID
	Email     string
	Username  string
	FirstName string
	LastName  string
	Phone     string
	Password  string
	Role      identity.AccountRole
}

// LoginInput contains the input for account login
type LoginInput struct {
	TenantID uuid.UUID
	Email    string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	Account               AccountInfo
}

// AccountInfo contains account information returned to callers
type AccountInfo struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Email     string
	Username  string
	FirstName string
	LastName  string
	Phone     string
	Role      identity.AccountRole
	Active    bool
	CreatedAt time.Time
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// UpdateProfileInput contains the input for profile updates
type UpdateProfileInput struct {
	AccountID uuid.UUID
	FirstName string
	LastName  string
	Phone     string
}

// ChangePasswordInput contains the input for password change
type ChangePasswordInput struct {
	AccountID   uuid.UUID
	OldPassword string
	NewPassword string
}

func accountInfoFromDomain(a *identity.Account) AccountInfo {
	return AccountInfo{
		ID:        a.ID,
		TenantID:  a.TenantID,
		Email:     a.Email,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
		Role:      a.Role,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}
