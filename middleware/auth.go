package middleware

import (
	"net/http"
	"strings"

	"roomhive/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserID is the gin context key carrying the authenticated account ID.
const ContextUserID = "userID"

// JWTAuth validates the bearer token and stores the account ID on the
// context for handlers.
func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthenticated(c)
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == "" {
			abortUnauthenticated(c)
			return
		}

		accountID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || accountID == "" {
			abortUnauthenticated(c)
			return
		}

		c.Set(ContextUserID, accountID)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    utils.CodeUnauthenticated,
		"message": "Insufficient authorization",
	})
}

// AuthedUserID returns the account ID set by JWTAuth.
func AuthedUserID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
