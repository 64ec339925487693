package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Tenant context keys
const (
	TenantIDKey     = "tenant_id"
	TenantHeaderKey = "X-Tenant-ID"
)

// DefaultTenantID is the development tenant used when no tenant can be
// resolved from the request
var DefaultTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// TenantMiddleware resolves the tenant for the request.
// Extraction order: JWT claims > X-Tenant-ID header > tenant_id query
// parameter (used by gateway redirect callbacks) > development default.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := GetJWTTenantID(c)
		if raw == "" {
			raw = c.GetHeader(TenantHeaderKey)
		}
		if raw == "" {
			raw = c.Query("tenant_id")
		}

		if raw == "" {
			c.Set(TenantIDKey, DefaultTenantID)
			c.Next()
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_BAD_REQUEST",
					"message": "Invalid tenant identifier",
				},
			})
			return
		}

		c.Set(TenantIDKey, tenantID)
		c.Next()
	}
}

// GetTenantID retrieves the resolved tenant ID from gin.Context
func GetTenantID(c *gin.Context) uuid.UUID {
	if v, exists := c.Get(TenantIDKey); exists {
		if id, ok := v.(uuid.UUID); ok {
			return id
		}
	}
	return DefaultTenantID
}
