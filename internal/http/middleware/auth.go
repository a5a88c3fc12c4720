// README: Bearer-token auth middleware backed by the identity provider's verifier.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vecturo/internal/infra"
)

const (
	ctxKeyUID   = "auth_uid"
	ctxKeyEmail = "auth_email"
)

// Auth verifies the Authorization bearer token on every request and stores
// the caller's uid in the gin context. The uid is trusted downstream as the
// ride owner with no further verification.
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "no token provided"})
			return
		}
		token, err := verifier.VerifyIDToken(c.Request.Context(), strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication failed"})
			return
		}
		c.Set(ctxKeyUID, token.UID)
		if email, ok := token.Claims["email"].(string); ok {
			c.Set(ctxKeyEmail, email)
		}
		c.Next()
	}
}

// CallerUID returns the authenticated caller's uid, or "" outside Auth.
func CallerUID(c *gin.Context) string {
	return c.GetString(ctxKeyUID)
}

// CallerEmail returns the verified email claim when present.
func CallerEmail(c *gin.Context) string {
	return c.GetString(ctxKeyEmail)
}
