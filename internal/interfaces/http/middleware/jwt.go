package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rently/backend/internal/domain/identity"
	"github.com/rently/backend/internal/infrastructure/auth"
	"github.com/rently/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// AuthorizationHeader is the header containing the bearer token
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the expected token prefix
	BearerPrefix = "Bearer "

	// PrincipalKey is the gin context key holding the authenticated principal
	PrincipalKey = "principal"
)

// JWTConfig configures the JWT authentication middleware
type JWTConfig struct {
	JWTService *auth.JWTService
	// SkipPaths are exact paths that bypass authentication
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that bypass authentication
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuth returns a middleware that validates the bearer token and stores
// the resolved principal in the request context.
func JWTAuth(cfg JWTConfig) gin.HandlerFunc {
	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skipPaths[p] = struct{}{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skipPaths[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		token, err := extractBearerToken(c)
		if err != nil {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, err.Error())
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(token)
		if err != nil {
			logger.Debug("Token validation failed",
				zap.String("path", path),
				zap.Error(err),
			)
			handleAuthError(c, err)
			return
		}

		c.Set(PrincipalKey, identity.Principal{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     identity.Role(claims.Role),
		})
		c.Next()
	}
}

// extractBearerToken pulls the token out of the Authorization header
func extractBearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader(AuthorizationHeader)
	if header == "" {
		return "", errors.New("Authorization header is missing")
	}
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", errors.New("Authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	if token == "" {
		return "", errors.New("Bearer token is empty")
	}
	return token, nil
}

// handleAuthError maps token validation errors to wire responses
func handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		abortUnauthorized(c, dto.ErrCodeUnauthorized, "Token has expired")
	case errors.Is(err, auth.ErrTokenNotYetValid):
		abortUnauthorized(c, dto.ErrCodeUnauthorized, "Token is not yet valid")
	case errors.Is(err, auth.ErrInvalidTokenType):
		abortUnauthorized(c, dto.ErrCodeUnauthorized, "Wrong token type")
	default:
		abortUnauthorized(c, dto.ErrCodeUnauthorized, "Invalid token")
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	requestID := c.GetString("request_id")
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// GetPrincipal retrieves the authenticated principal from the context.
// The second return value is false when the request was not authenticated.
func GetPrincipal(c *gin.Context) (identity.Principal, bool) {
	value, exists := c.Get(PrincipalKey)
	if !exists {
		return identity.Principal{}, false
	}
	principal, ok := value.(identity.Principal)
	return principal, ok
}
