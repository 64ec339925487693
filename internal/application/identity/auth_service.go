package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
)

// AuthService handles registration, authentication and profile
// management for marketplace accounts
type AuthService struct {
	accountRepo identity.AccountRepository
	jwtService  *auth.JWTService
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	accountRepo identity.AccountRepository,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// Register creates a new active account. Sellers and buyers register
// through the same flow, only the role differs.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AccountInfo, error) {
	s.logger.Info("Registration attempt",
		zap.String("email", input.Email),
		zap.String("role", string(input.Role)))

	exists, err := s.accountRepo.ExistsByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to check email availability")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email already exists")
	}

	role := input.Role
	if role == "" {
		role = identity.RoleBuyer
	}
	if role == identity.RoleAdmin {
		return nil, shared.NewDomainError("INVALID_ROLE", "Admin accounts cannot self-register")
	}

	account, err := identity.NewActiveAccount(input.TenantID, input.Email, input.Username, input.Password, role)
	if err != nil {
		return nil, err
	}
	account.FirstName = input.FirstName
	account.LastName = input.LastName
	account.Phone = input.Phone

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "An account with this email or username already exists")
		}
		s.logger.Error("Failed to create account", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	s.logger.Info("Account registered",
		zap.String("account_id", account.ID.String()),
		zap.String("role", string(account.Role)))

	info := accountInfoFromDomain(account)
	return &info, nil
}

// Login authenticates an account by email and returns a token pair
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	s.logger.Info("Login attempt", zap.String("email", input.Email))

	account, err := s.accountRepo.FindByEmail(ctx, input.TenantID, input.Email)
	if err != nil {
		s.logger.Warn("Account not found during login", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !account.Active {
		s.logger.Warn("Login attempt for inactive account", zap.String("email", input.Email))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account has been deactivated")
	}

	if !account.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", input.Email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		TenantID:  account.TenantID,
		AccountID: account.ID,
		Username:  account.Username,
		Role:      string(account.Role),
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	account.RecordLogin(time.Now())
	if err := s.accountRepo.Update(ctx, account); err != nil {
		// don't fail the login over a bookkeeping write
		s.logger.Error("Failed to record login time", zap.Error(err))
	}

	s.logger.Info("Account logged in",
		zap.String("account_id", account.ID.String()),
		zap.String("email", input.Email))

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		Account:               accountInfoFromDomain(account),
	}, nil
}

// RefreshToken exchanges a valid refresh token for a new pair
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		switch {
		case errors.Is(err, auth.ErrExpiredToken):
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		default:
			return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
		}
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid account ID in token")
	}

	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		s.logger.Warn("Account not found during token refresh", zap.String("account_id", claims.AccountID))
		return nil, shared.NewDomainError("ACCOUNT_NOT_FOUND", "Account not found")
	}
	if !account.Active {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		s.logger.Error("Failed to refresh token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to refresh tokens")
	}

	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

// GetProfile returns the account's profile
func (s *AuthService) GetProfile(ctx context.Context, accountID uuid.UUID) (*AccountInfo, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	info := accountInfoFromDomain(account)
	return &info, nil
}

// UpdateProfile updates the account's editable profile fields
func (s *AuthService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*AccountInfo, error) {
	account, err := s.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if err := account.UpdateProfile(input.FirstName, input.LastName, input.Phone); err != nil {
		return nil, err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("Failed to update profile", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to update profile")
	}

	info := accountInfoFromDomain(account)
	return &info, nil
}

// ChangePassword verifies the old password and sets a new one
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	account, err := s.accountRepo.FindByID(ctx, input.AccountID)
	if err != nil {
		return err
	}

	if err := account.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("Failed to persist password change", zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to change password")
	}

	s.logger.Info("Password changed", zap.String("account_id", account.ID.String()))
	return nil
}
