package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/marketplace/backend/internal/domain/shared"
)

// AccountRole classifies what an account is allowed to do in the marketplace
type AccountRole string

const (
	RoleBuyer  AccountRole = "buyer"
	RoleSeller AccountRole = "seller"
	RoleAdmin  AccountRole = "admin"
)

// Password cost for bcrypt
const bcryptCost = 12

// Account represents a marketplace account.
// It is the aggregate root for identity operations; buyers and sellers
// share the same aggregate and differ only by role.
type Account struct {
	shared.TenantAggregateRoot
	Email        string
	Username     string
	FirstName    string
	LastName     string
	Phone        string
	PasswordHash string
	Role         AccountRole
	Active       bool
	LastLoginAt  *time.Time
}

// NewAccount creates a new inactive account with a hashed password
func NewAccount(tenantID uuid.UUID, email, username, password string, role AccountRole) (*Account, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if role != RoleBuyer && role != RoleSeller && role != RoleAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown account role")
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	account := &Account{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               strings.ToLower(strings.TrimSpace(email)),
		Username:            strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:        passwordHash,
		Role:                role,
		Active:              false,
	}

	account.AddDomainEvent(NewAccountRegisteredEvent(account))

	return account, nil
}

// NewActiveAccount creates an account that is immediately active
func NewActiveAccount(tenantID uuid.UUID, email, username, password string, role AccountRole) (*Account, error) {
	account, err := NewAccount(tenantID, email, username, password, role)
	if err != nil {
		return nil, err
	}
	account.Active = true
	return account, nil
}

// Activate enables the account for login
func (a *Account) Activate() {
	if a.Active {
		return
	}
	a.Active = true
	a.MarkUpdated()
}

// Deactivate disables the account
func (a *Account) Deactivate() {
	if !a.Active {
		return
	}
	a.Active = false
	a.MarkUpdated()
}

// IsSeller reports whether the account may list products
func (a *Account) IsSeller() bool {
	return a.Role == RoleSeller || a.Role == RoleAdmin
}

// FullName returns the display name used on orders
func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// UpdateProfile sets the mutable profile fields
func (a *Account) UpdateProfile(firstName, lastName, phone string) error {
	if len(firstName) > 100 || len(lastName) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}
	if phone != "" && len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	a.FirstName = strings.TrimSpace(firstName)
	a.LastName = strings.TrimSpace(lastName)
	a.Phone = strings.TrimSpace(phone)
	a.MarkUpdated()

	return nil
}

// ChangePassword changes the password after verifying the current one
func (a *Account) ChangePassword(oldPassword, newPassword string) error {
	if !a.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return a.SetPassword(newPassword)
}

// SetPassword sets a new password without checking the old one
func (a *Account) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	a.PasswordHash = passwordHash
	a.MarkUpdated()

	return nil
}

// VerifyPassword verifies if the provided password matches
func (a *Account) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
	return err == nil
}

// RecordLogin stores the timestamp of a successful login
func (a *Account) RecordLogin(at time.Time) {
	a.LastLoginAt = &at
	a.Touch()
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}

	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 128 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 128 characters")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}

	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}

	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}

	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
