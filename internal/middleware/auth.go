package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gipicihuy/kumpulan-prompt-ai/internal/pkg/response"
)

const contextKeyAdmin = "is_admin"

// AdminAuth returns a middleware gating administrative routes behind the
// static shared secret. There is no session and no expiry: the Authorization
// header must carry the exact configured secret on every call.
func AdminAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := NormalizeToken(c.GetHeader("Authorization"))
		if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			response.Forbidden(c, "admin access denied")
			return
		}
		c.Set(contextKeyAdmin, true)
		c.Next()
	}
}

// MarkAdmin flags the request as admin-authenticated when the shared secret
// is presented, without blocking the request. Used so the rate limiter can
// skip admin traffic on public routes.
func MarkAdmin(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := NormalizeToken(c.GetHeader("Authorization"))
		if token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1 {
			c.Set(contextKeyAdmin, true)
		}
		c.Next()
	}
}

// IsAdmin reports whether the request presented the admin secret.
func IsAdmin(c *gin.Context) bool {
	v, _ := c.Get(contextKeyAdmin)
	flag, _ := v.(bool)
	return flag
}

// NormalizeToken trims spaces and strips an optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
