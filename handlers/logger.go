package handlers

import (
	"washx/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// getLogger retrieves the request-scoped Zap logger from the Gin context or falls back to the global one.
func getLogger(c *gin.Context) *zap.Logger {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(*zap.Logger); ok {
			return logger
		}
	}
	return utils.GetLogger()
}

// isAdmin reports whether an upstream middleware accepted the admin token.
func isAdmin(c *gin.Context) bool {
	return c.GetBool("isAdmin")
}
