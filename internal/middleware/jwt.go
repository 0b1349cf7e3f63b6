package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // Header parsing

	"expense_tracker/internal/session" // Active session
	"expense_tracker/internal/utils"   // JWT utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Structured logging
)

// UsernameKey is the context key the token's username is stored under
const UsernameKey = "username"

const bearerPrefix = "Bearer "

// SessionAuth admits a request only when it carries a valid token for the logged-in user.
// Tokens of a user who has since logged out, or been replaced by another login, are rejected.
// Handlers must still act through session.As(TokenUser(c)), the session may change after this check.
func SessionAuth(secret string, sess *session.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		claims, err := utils.ParseJWT(tokenStr, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if active, ok := sess.User(); !ok || claims.Username == "" || claims.Username != active {
			logrus.WithFields(logrus.Fields{
				"token_user":  claims.Username, // User named by the token
				"active_user": active,          // Logged-in user, empty if none
			}).Debug("Request without active session")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No active session"})
			return
		}
		c.Set(UsernameKey, claims.Username)
		c.Next()
	}
}

// TokenUser returns the username SessionAuth admitted, empty outside it
func TokenUser(c *gin.Context) string {
	return c.GetString(UsernameKey)
}

// bearerToken extracts the token from "Authorization: Bearer <token>"
func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	return token, token != ""
}
