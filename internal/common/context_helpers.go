// File: internal/common/context_helpers.go
package common

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// BearerToken extracts the token from an "Authorization: Bearer <token>" header.
// It returns "" when the header is missing or malformed.
func BearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], AuthorizationTypeBearer) {
		return ""
	}
	return parts[1]
}

// GetTokenFromContext returns the bearer token of the current request.
func GetTokenFromContext(c *gin.Context) string {
	return BearerToken(c.GetHeader(AuthorizationHeader))
}

// GetUserIDFromContext returns the authenticated user id, or "" for anonymous requests.
func GetUserIDFromContext(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetTokenIDFromContext returns the JWT id and expiry of the token used for the request.
func GetTokenIDFromContext(c *gin.Context) (string, time.Time) {
	return c.GetString(TokenIDKey), c.GetTime(TokenExpKey)
}
