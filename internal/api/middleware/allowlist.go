package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/core/entity"
)

// AllowedParam rejects requests whose path parameter param is not in allow
// with domain.ErrMethodNotAllowed. Mount it ahead of Require so an unlisted
// name yields 405 whoever the caller is.
func AllowedParam(param string, allow entity.AllowList) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := allow.Resolve(c.Param(param)); err != nil {
				return err
			}
			return next(c)
		}
	}
}
