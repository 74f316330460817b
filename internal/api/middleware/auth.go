package middleware

import (
	"net/http"

	"chat-realtime/internal/auth"

	"github.com/gin-gonic/gin"
)

const UserIDKey = "user_id"

type AuthMiddleware struct {
	authenticator auth.Authenticator
}

func NewAuthMiddleware(authenticator auth.Authenticator) *AuthMiddleware {
	return &AuthMiddleware{
		authenticator: authenticator,
	}
}

// RequireAuth rejects requests without a valid token and stores the user ID
// in the context under UserIDKey.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := am.authenticator.Authenticate(auth.ExtractCredential(c.Request))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or missing token"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}
