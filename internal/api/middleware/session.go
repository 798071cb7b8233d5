package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bookshelf/secureapp/internal/api/metrics"
	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "session"

	requestContextKey = "request_context"
	sessionTokenKey   = "session_token"
)

// Session resolves the caller's session on every request and attaches a
// domain.RequestContext to the echo context. Missing, rejected or expired
// tokens, and tokens whose account is gone or disabled, all yield an
// anonymous context: rejection is left to the route's policy. Backend
// failures abort the request.
func Session(sessions ports.SessionManager, identity ports.IdentityService, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rc := domain.Anonymous(time.Now().UTC())
			ctx := c.Request().Context()

			token := TokenFrom(c)
			if token == "" {
				metrics.SessionResolutionsTotal.WithLabelValues("anonymous").Inc()
				c.Set(requestContextKey, rc)
				return next(c)
			}

			session, err := sessions.Resolve(ctx, token)
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthenticated) {
					return err
				}
				metrics.SessionResolutionsTotal.WithLabelValues("rejected").Inc()
				c.Set(requestContextKey, rc)
				return next(c)
			}

			account, err := identity.FindAccount(ctx, session.Subject)
			if err != nil {
				if !errors.Is(err, domain.ErrNotFound) {
					return err
				}
				log.Warn().Str("session_id", session.ID).Msg("session subject has no account")
				metrics.SessionResolutionsTotal.WithLabelValues("rejected").Inc()
				c.Set(requestContextKey, rc)
				return next(c)
			}
			if !account.Active {
				metrics.SessionResolutionsTotal.WithLabelValues("rejected").Inc()
				c.Set(requestContextKey, rc)
				return next(c)
			}

			roles, err := identity.RolesOf(ctx, account)
			if err != nil {
				return err
			}

			rc.Account = account
			rc.Roles = roles
			metrics.SessionResolutionsTotal.WithLabelValues("accepted").Inc()
			c.Set(requestContextKey, rc)
			c.Set(sessionTokenKey, token)
			return next(c)
		}
	}
}

// TokenFrom returns the bearer token from the Authorization header, falling
// back to the session cookie.
func TokenFrom(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie.Value
	}
	return ""
}

// RequestContextFrom returns the context attached by Session, or an anonymous
// one when the middleware did not run.
func RequestContextFrom(c echo.Context) domain.RequestContext {
	if rc, ok := c.Get(requestContextKey).(domain.RequestContext); ok {
		return rc
	}
	return domain.Anonymous(time.Now().UTC())
}

// WithRequestContext attaches rc to c. Handlers under test use it in place of
// the Session middleware.
func WithRequestContext(c echo.Context, rc domain.RequestContext) {
	c.Set(requestContextKey, rc)
}

// SessionCookieFor builds the HttpOnly cookie carrying token. An empty token
// yields a cookie that clears the session on the client.
func SessionCookieFor(token string, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		cookie.MaxAge = -1
	}
	return cookie
}
