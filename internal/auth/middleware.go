package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
)

// Authenticator resolves bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Principal, error)
}

// RequireAuth rejects requests without a valid bearer token and stores the
// principal on the request context. A session store outage is reported as
// 503 so clients keep their token.
func RequireAuth(a Authenticator, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var p *Principal
			p, err = a.Authenticate(c.Request.Context(), token)
			if err == nil {
				c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), p))
				c.Next()
				return
			}
		}

		if errors.Is(err, apperrors.ErrStorageUnavailable) {
			log.Error("Failed to authenticate request", "path", c.Request.URL.Path, "error", err)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"message": "Service temporarily unavailable",
					"code":    "STORAGE_UNAVAILABLE",
				},
			})
			return
		}

		log.Debug("Rejected bearer token", "path", c.Request.URL.Path, "error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"message": apperrors.ErrUnauthenticated.Error(),
				"code":    "UNAUTHORIZED",
			},
		})
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrMissingToken
	}
	if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", apperrors.ErrInvalidToken
	}
	return strings.TrimSpace(header[len("Bearer "):]), nil
}
