package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/infrastructure/auth"
	"github.com/grocery/admin/internal/infrastructure/config"
	"github.com/grocery/admin/internal/infrastructure/logger"
	"github.com/grocery/admin/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionKey    = "session"
	AdminIDKey    = "admin_id"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator checks a browser session token
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// SessionCookie describes the cookie that carries the session token
type SessionCookie struct {
	Name     string
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// SessionCookieFrom builds the cookie settings from configuration
func SessionCookieFrom(cfg config.SessionConfig) SessionCookie {
	sc := SessionCookie{
		Name:     cfg.CookieName,
		Domain:   cfg.CookieDomain,
		Path:     cfg.CookiePath,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
	switch strings.ToLower(cfg.CookieSameSite) {
	case "strict":
		sc.SameSite = http.SameSiteStrictMode
	case "none":
		sc.SameSite = http.SameSiteNoneMode
		sc.Secure = true
	}
	if sc.Path == "" {
		sc.Path = "/"
	}
	return sc
}

// Set writes the session cookie
func (sc SessionCookie) Set(c *gin.Context, token string, expiresAt time.Time) {
	if sc.Name == "" {
		return
	}
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge < 1 {
		maxAge = 1
	}
	c.SetSameSite(sc.SameSite)
	c.SetCookie(sc.Name, token, maxAge, sc.Path, sc.Domain, sc.Secure, true)
}

// Clear removes the session cookie
func (sc SessionCookie) Clear(c *gin.Context) {
	if sc.Name == "" {
		return
	}
	c.SetSameSite(sc.SameSite)
	c.SetCookie(sc.Name, "", -1, sc.Path, sc.Domain, sc.Secure, true)
}

// SessionAuthConfig holds configuration for the session middleware
type SessionAuthConfig struct {
	Tokens TokenValidator
	Store  identity.SessionStore
	Cookie SessionCookie
	Logger *zap.Logger
}

// SessionAuth requires a valid session. The token is read from the session
// cookie, or from a Bearer header for non-browser clients. The session it names
// must still be in the store; it is then placed in the request context.
func SessionAuth(cfg SessionAuthConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		token, fromCookie := sessionToken(c, cfg.Cookie.Name)
		if token == "" {
			rejectSession(c, cfg, false, dto.ErrCodeUnauthorized, "Please sign in")
			return
		}

		claims, err := cfg.Tokens.Validate(token)
		if err != nil {
			log.Debug("Session token rejected", zap.Error(err), zap.String("path", c.Request.URL.Path))
			code, msg := tokenErrorCode(err)
			rejectSession(c, cfg, fromCookie, code, msg)
			return
		}

		ctx := c.Request.Context()
		sess, err := cfg.Store.Get(ctx, claims.SessionID)
		if err != nil {
			if !errors.Is(err, identity.ErrSessionNotFound) {
				log.Error("Failed to load session", zap.String("session_id", claims.SessionID), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusServiceUnavailable, dto.NewErrorResponseWithRequestID(
					dto.ErrCodeInternal, "Session store unavailable", requestIDOf(c)))
				return
			}
			rejectSession(c, cfg, fromCookie, dto.ErrCodeSessionNotFound, "Session has ended, please sign in again")
			return
		}

		c.Set(SessionKey, sess)
		c.Set(AdminIDKey, sess.AdminID)
		c.Request = c.Request.WithContext(withSession(ctx, sess))
		c.Next()
	}
}

func withSession(ctx context.Context, sess *identity.Session) context.Context {
	ctx = identity.WithSession(ctx, sess)
	return logger.WithAdminID(ctx, sess.AdminID)
}

func sessionToken(c *gin.Context, cookieName string) (string, bool) {
	if cookieName != "" {
		if v, err := c.Cookie(cookieName); err == nil && v != "" {
			return v, true
		}
	}
	header := c.GetHeader(AuthHeaderKey)
	if strings.HasPrefix(header, BearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)), false
	}
	return "", false
}

func tokenErrorCode(err error) (string, string) {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return dto.ErrCodeTokenExpired, "Session has expired, please sign in again"
	default:
		return dto.ErrCodeTokenInvalid, "Invalid session, please sign in again"
	}
}

// rejectSession answers 401 with the login redirect, clearing a cookie that
// no longer names a session
func rejectSession(c *gin.Context, cfg SessionAuthConfig, clearCookie bool, code, message string) {
	if clearCookie {
		cfg.Cookie.Clear(c)
	}
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewUnauthorizedResponse(code, message, requestIDOf(c)))
}

// GetSession retrieves the session set by SessionAuth
func GetSession(c *gin.Context) *identity.Session {
	if v, ok := c.Get(SessionKey); ok {
		if sess, ok := v.(*identity.Session); ok {
			return sess
		}
	}
	return nil
}

// GetAdminID retrieves the signed-in admin ID
func GetAdminID(c *gin.Context) string {
	return c.GetString(AdminIDKey)
}
