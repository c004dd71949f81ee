// File: internal/middleware/auth.go
package middleware

import (
	"context"

	"github.com/vueltra/vueltra-property2-sub000/internal/auth"
	"github.com/vueltra/vueltra-property2-sub000/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminChecker reports whether userID currently has admin rights.
type AdminChecker func(ctx context.Context, userID string) (bool, error)

// AuthMiddleware requires a valid, non-revoked bearer token.
func AuthMiddleware(tokens auth.TokenService, blocklist auth.TokenBlocklistService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := common.GetTokenFromContext(c)
		if raw == "" {
			logger.Debug("Bearer token missing", zap.String("path", c.Request.URL.Path))
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}
		claims, err := authenticate(c, tokens, blocklist, raw)
		if err != nil {
			logger.Debug("Token rejected", zap.Error(err))
			common.RespondWithError(c, err)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is sent and
// otherwise lets the request through anonymously.
func OptionalAuthMiddleware(tokens auth.TokenService, blocklist auth.TokenBlocklistService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := common.GetTokenFromContext(c); raw != "" {
			if claims, err := authenticate(c, tokens, blocklist, raw); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware.
func AdminMiddleware(isAdmin AdminChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := common.GetUserIDFromContext(c)
		if userID == "" {
			common.RespondWithError(c, common.ErrUnauthorized)
			return
		}
		ok, err := isAdmin(c.Request.Context(), userID)
		if err != nil {
			common.RespondWithError(c, err)
			return
		}
		if !ok {
			common.RespondWithError(c, common.ErrForbidden.WithMessage("Admin access required."))
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens auth.TokenService, blocklist auth.TokenBlocklistService, raw string) (*auth.Claims, error) {
	claims, err := tokens.ValidateToken(raw)
	if err != nil {
		return nil, common.ErrUnauthorized.WithMessage("Session expired, please log in again.").WithDetails(err.Error())
	}
	revoked, err := blocklist.IsBlocklisted(c.Request.Context(), claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, common.ErrUnauthorized.WithMessage("Session expired, please log in again.")
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(common.UserIDKey, claims.UserID)
	c.Set(common.UserEmailKey, claims.Email)
	c.Set(common.TokenIDKey, claims.ID)
	if claims.ExpiresAt != nil {
		c.Set(common.TokenExpKey, claims.ExpiresAt.Time)
	}
}
