package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/itou/backend/internal/application/identity"
	"github.com/itou/backend/internal/infrastructure/logger"
	"github.com/itou/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Auth context keys
const (
	PrincipalKey  = "principal"
	UserIDKey     = "user_id"
	AuthHeaderKey = "Authorization"
	TokenPrefix   = "Token "
)

// Authenticator resolves API tokens and session cookies to a caller
type Authenticator interface {
	AuthenticateToken(ctx context.Context, key string) (*identity.Principal, error)
	AuthenticateSession(ctx context.Context, token string) (*identity.Principal, error)
}

// AuthConfig holds configuration for the authentication middleware
type AuthConfig struct {
	Authenticator Authenticator
	// CookieName is the session cookie
	CookieName string
	// LoginURL is where anonymous browser requests are sent
	LoginURL string
	Logger   *zap.Logger
}

// Authenticate resolves the caller from an "Authorization: Token <key>"
// header or, failing that, from the session cookie. It never rejects a
// request by itself, except when a token header is present but invalid.
func Authenticate(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		if header := c.GetHeader(AuthHeaderKey); header != "" {
			key, ok := strings.CutPrefix(header, TokenPrefix)
			if !ok || strings.TrimSpace(key) == "" {
				abortUnauthorized(c, cfg, "Invalid token header. No credentials provided.")
				return
			}
			principal, err := cfg.Authenticator.AuthenticateToken(ctx, strings.TrimSpace(key))
			if err != nil {
				abortUnauthorized(c, cfg, "Invalid token.")
				return
			}
			setPrincipal(c, principal, "token")
			c.Next()
			return
		}

		if cookie, err := c.Cookie(cfg.CookieName); err == nil && cookie != "" {
			principal, err := cfg.Authenticator.AuthenticateSession(ctx, cookie)
			if err == nil {
				setPrincipal(c, principal, "session")
			} else if cfg.Logger != nil {
				cfg.Logger.Debug("Ignoring invalid session cookie",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err))
			}
		}

		c.Next()
	}
}

// RequireAuth rejects anonymous API requests with 401
func RequireAuth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c) == nil {
			abortUnauthorized(c, cfg, "Authentication credentials were not provided.")
			return
		}
		c.Next()
	}
}

// RequireLogin redirects anonymous browser requests to the login page
func RequireLogin(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetPrincipal(c) == nil {
			target := cfg.LoginURL + "?next=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}

func setPrincipal(c *gin.Context, p *identity.Principal, method string) {
	c.Set(PrincipalKey, p)
	c.Set(UserIDKey, p.UserID)

	ctx, _ := logger.WithUser(c.Request.Context(), logger.FromContext(c.Request.Context()), p.UserID, method)
	c.Request = c.Request.WithContext(ctx)
}

func abortUnauthorized(c *gin.Context, cfg AuthConfig, message string) {
	if cfg.Logger != nil {
		cfg.Logger.Warn("Authentication failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("message", message))
	}
	c.Header("WWW-Authenticate", "Token")
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized, message, c.GetString(RequestIDContextKey)))
}

// GetPrincipal retrieves the authenticated caller, nil when anonymous
func GetPrincipal(c *gin.Context) *identity.Principal {
	if v, exists := c.Get(PrincipalKey); exists {
		if p, ok := v.(*identity.Principal); ok {
			return p
		}
	}
	return nil
}
