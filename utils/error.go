package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorBody is the structured error payload.
type ErrorBody struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// ErrorResponse defines the structure of error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorHandler is a middleware to catch panics and return structured errors.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic", zap.Any("error", err), zap.String("path", c.FullPath()))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: ErrorBody{Kind: KindInternal, Message: "An unexpected error occurred. Please try again later."},
				})
			}
		}()
		c.Next()
	}
}

// ToErrorBody converts any error into the public {kind, message} shape.
// Internal details never leak to clients.
func ToErrorBody(err error) ErrorBody {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Kind != KindInternal {
		return ErrorBody{Kind: appErr.Kind, Message: appErr.Message}
	}
	return ErrorBody{Kind: KindInternal, Message: "internal error"}
}

// JSONError sends a standardized JSON error response for err.
func JSONError(c *gin.Context, logger *zap.Logger, err error) {
	kind := KindOf(err)
	status := HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		logger.Warn("Request rejected", zap.String("path", c.FullPath()), zap.String("kind", string(kind)), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: ToErrorBody(err)})
}

// AbortJSON stops the handler chain with the structured error body for kind.
func AbortJSON(c *gin.Context, kind ErrorKind, message string) {
	c.AbortWithStatusJSON(HTTPStatus(kind), ErrorResponse{Error: ErrorBody{Kind: kind, Message: message}})
}
