// File: internal/middleware/error.go
package middleware

import (
	"net/http"

	"github.com/vueltra/vueltra-property2-sub000/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders errors attached with c.Error and panics as APIError bodies.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Recovered from panic",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("request_id", c.GetString(common.RequestIDKey)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, common.ErrInternalServer)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		common.RespondWithError(c, c.Errors.Last().Err)
	}
}

// NoRoute answers unknown paths with a NOT_FOUND body.
func NoRoute(c *gin.Context) {
	common.RespondWithError(c, common.ErrNotFound.WithDetails("The requested endpoint does not exist."))
}

// NoMethod answers a known path called with the wrong method.
func NoMethod(c *gin.Context) {
	common.RespondWithError(c, common.NewAPIError(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "The method is not allowed for the requested URL."))
}
