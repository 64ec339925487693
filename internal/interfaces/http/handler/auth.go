package handler

import (
	"github.com/gin-gonic/gin"

	appidentity "github.com/marketplace/backend/internal/application/identity"
	"github.com/marketplace/backend/internal/domain/identity"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates a new buyer or seller account
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	role := identity.RoleBuyer
	if req.Role != "" {
		role = identity.AccountRole(req.Role)
	}

	account, err := h.authService.Register(c.Request.Context(), appidentity.RegisterInput{
		TenantID:  getTenantID(c),
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Password:  req.Password,
		Role:      role,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, accountResponseFromInfo(account))
}

// Login authenticates an account with email and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		TenantID: getTenantID(c),
		Email:    req.Email,
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
		Account: accountResponseFromInfo(&result.Account),
	})
}

// RefreshToken issues a new token pair from a valid refresh token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	result, err := h.authService.RefreshToken(c.Request.Context(), appidentity.RefreshTokenInput{
		RefreshToken: req.RefreshToken,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, RefreshTokenResponse{
		Token: TokenResponse{
			AccessToken:           result.AccessToken,
			RefreshToken:          result.RefreshToken,
			AccessTokenExpiresAt:  result.AccessTokenExpiresAt,
			RefreshTokenExpiresAt: result.RefreshTokenExpiresAt,
			TokenType:             result.TokenType,
		},
	})
}

// GetProfile returns the authenticated account's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	account, err := h.authService.GetProfile(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, accountResponseFromInfo(account))
}

// UpdateProfile updates the authenticated account's contact details
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	account, err := h.authService.UpdateProfile(c.Request.Context(), appidentity.UpdateProfileInput{
		AccountID: accountID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, accountResponseFromInfo(account))
}

// ChangePassword changes the authenticated account's password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	accountID, err := getAccountID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), appidentity.ChangePasswordInput{
		AccountID:   accountID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{"message": "Password changed successfully"})
}

func accountResponseFromInfo(a *appidentity.AccountInfo) AccountResponse {
	return AccountResponse{
		ID:        a.ID,
		TenantID:  a.TenantID,
		Email:     a.Email,
		Username:  a.Username,
		FirstName: a.FirstName,
		LastName:  a.LastName,
		Phone:     a.Phone,
		Role:      string(a.Role),
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}
