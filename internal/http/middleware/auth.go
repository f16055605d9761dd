// Package middleware – JWT authentication.
//
// This file implements bearer-token authentication for protected routes.
// It extracts the Authorization header, verifies the access token through a
// narrow TokenVerifier function, and stashes the resulting user ID in the
// Gin context under "userID" where downstream handlers and middleware
// (idempotency, logging) expect it.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the Gin context key that carries the authenticated
// user's ID. Handlers read it via their own accessor helpers.
const ContextUserID = "userID"

// TokenVerifier validates an access token string and returns the user ID it
// was issued to. Implementations should return an error for malformed,
// expired, or wrong-type tokens.
type TokenVerifier func(tokenString string) (userID string, err error)

// RequireAuth returns middleware that rejects requests lacking a valid
// "Authorization: Bearer <token>" header with 401 and a compact error body.
// On success it sets ContextUserID for the rest of the chain.
func RequireAuth(verify TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		const prefix = "Bearer "
		if raw == "" || !strings.HasPrefix(raw, prefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "missing bearer token",
			})
			return
		}

		userID, err := verify(strings.TrimSpace(raw[len(prefix):]))
		if err != nil || userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code":    "unauthorized",
				"message": "invalid or expired token",
			})
			return
		}

		c.Set(ContextUserID, userID)
		c.Next()
	}
}
