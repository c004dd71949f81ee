// File: internal/common/context_keys.go
package common

const (
	AuthorizationHeader     = "Authorization"
	AuthorizationTypeBearer = "Bearer"

	// Gin context keys set by the middleware.
	UserIDKey    = "userID"
	UserEmailKey = "userEmail"
	TokenIDKey   = "tokenID"
	TokenExpKey  = "tokenExpiresAt"
	RequestIDKey = "requestID"
	LoggerKey    = "logger"
)
