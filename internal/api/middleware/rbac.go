package middleware

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/api/metrics"
	"github.com/bookshelf/secureapp/internal/core/domain"
)

// Require guards a route with policy. Anonymous callers get
// domain.ErrUnauthenticated, authenticated callers without the required roles
// domain.ErrForbidden; the handler only runs when the policy holds.
func Require(policy domain.Policy) echo.MiddlewareFunc {
	label := policy.String()

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if err := domain.Authorize(RequestContextFrom(c), policy); err != nil {
				result := "forbidden"
				if errors.Is(err, domain.ErrUnauthenticated) {
					result = "unauthenticated"
				}
				metrics.AccessDecisionsTotal.WithLabelValues(label, result).Inc()
				return err
			}
			metrics.AccessDecisionsTotal.WithLabelValues(label, "granted").Inc()
			return next(c)
		}
	}
}
