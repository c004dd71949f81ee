// File: internal/common/response.go
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RespondWithError aborts the request with err rendered as an APIError body.
// Errors that are not APIErrors become a 500 and are logged when a logger is
// present in the context.
func RespondWithError(c *gin.Context, err error) {
	apiErr, ok := IsAPIError(err)
	if !ok {
		if l, exists := c.Get(LoggerKey); exists {
			if logger, ok := l.(*zap.Logger); ok {
				logger.Error("Unhandled internal error", zap.Error(err), zap.String("path", c.Request.URL.Path))
			}
		}
		apiErr = ErrInternalServer
		if gin.Mode() == gin.DebugMode {
			apiErr = apiErr.WithDetails(err.Error())
		}
	}
	c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
}

// RespondOK writes v as the JSON body. A nil pointer is written as null, which
// is how no-op updates on unknown ids are reported.
func RespondOK(c *gin.Context, v interface{}) {
	c.JSON(http.StatusOK, v)
}

func RespondCreated(c *gin.Context, v interface{}) {
	c.JSON(http.StatusCreated, v)
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
