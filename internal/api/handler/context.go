package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/api/middleware"
	"github.com/bookshelf/secureapp/internal/core/domain"
)

// currentAccount returns the authenticated caller or domain.ErrUnauthenticated.
// Routes guarded by middleware.Require never see the error; it protects
// handlers mounted without a policy.
func currentAccount(c echo.Context) (domain.RequestContext, error) {
	rc := middleware.RequestContextFrom(c)
	if !rc.Authenticated() {
		return rc, domain.ErrUnauthenticated
	}
	return rc, nil
}
