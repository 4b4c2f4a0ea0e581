package middleware

import (
	"crypto/subtle"
	"strings"

	"washx/utils"

	"github.com/gin-gonic/gin"
)

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	return strings.TrimPrefix(authHeader, "Bearer "), true
}

func tokenMatches(got, want string) bool {
	return want != "" && subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// AdminAuthMiddleware rejects requests that do not carry the static admin token.
// An empty adminToken disables every admin route.
func AdminAuthMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			utils.AbortJSON(c, utils.KindUnauthorized, "Missing or invalid Authorization header")
			return
		}
		if !tokenMatches(tokenString, adminToken) {
			utils.AbortJSON(c, utils.KindUnauthorized, "Unauthorized admin access")
			return
		}

		c.Set("isAdmin", true)
		c.Next()
	}
}

// OptionalAdminMiddleware marks admin requests without rejecting anyone else.
func OptionalAdminMiddleware(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c); ok && tokenMatches(tokenString, adminToken) {
			c.Set("isAdmin", true)
		}
		c.Next()
	}
}
