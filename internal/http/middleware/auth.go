package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ozires/site24h-backend/internal/domain"
	"github.com/ozires/site24h-backend/internal/services"
)

// Context keys populated by the auth middleware. Handlers read these instead
// of parsing credentials themselves.
const (
	CtxUserID = "userID"
	CtxRole   = "role"
	CtxApiKey = "apiKeyID"
)

const apiKeyHeader = "X-API-Key"

// SessionAuth validates the Bearer token on every request and stores the
// authenticated identity in the Gin context. Requests without a valid token
// are rejected with 401.
func SessionAuth(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := auth.ParseToken(token)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, string(claims.Role))
		c.Next()
	}
}

// RequireAdmin gates a route group to ADMIN sessions. It must run after
// SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if RoleFrom(c) != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"request_id": asString(c.Value(requestIDKey)),
				"code":       "forbidden",
				"message":    "admin access required",
			})
			return
		}
		c.Next()
	}
}

// ApiKeyAuth authenticates machine callers (the site generator callback) via
// the X-API-Key header. The verified key ID is stashed for audit logging.
func ApiKeyAuth(keys *services.ApiKeyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(apiKeyHeader)
		if raw == "" {
			abortUnauthorized(c, "missing API key")
			return
		}
		rec, err := keys.Verify(c.Request.Context(), raw)
		if err != nil {
			abortUnauthorized(c, "invalid API key")
			return
		}
		c.Set(CtxApiKey, rec.ID)
		c.Next()
	}
}

// UserIDFrom returns the authenticated user ID, or "" when the request is
// unauthenticated.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(CtxUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// RoleFrom returns the authenticated session role.
func RoleFrom(c *gin.Context) domain.Role {
	if v, ok := c.Get(CtxRole); ok {
		if s, ok := v.(string); ok {
			return domain.Role(s)
		}
	}
	return ""
}

// IsAdmin reports whether the current session carries the ADMIN role.
func IsAdmin(c *gin.Context) bool { return RoleFrom(c) == domain.RoleAdmin }

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": asString(c.Value(requestIDKey)),
		"code":       "unauthorized",
		"message":    msg,
	})
}
