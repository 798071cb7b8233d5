package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/api/middleware"
	"github.com/bookshelf/secureapp/internal/core/domain"
)

// PageHandler serves the informational pages and the two role check pages.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func displayName(rc domain.RequestContext) string {
	if !rc.Authenticated() {
		return ""
	}
	if rc.Account.Username != nil {
		return *rc.Account.Username
	}
	return rc.Account.Email
}

// Home handles GET /.
//
// @Summary  Home page
// @Tags     pages
// @Produce  json
// @Success  200  {object}  pageResponse
// @Router   / [get]
func (h *PageHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{
		Page:    "home",
		Message: "Welcome to the book catalog.",
		User:    displayName(middleware.RequestContextFrom(c)),
	})
}

// Help handles GET /help.
//
// @Summary  Help page
// @Tags     pages
// @Produce  json
// @Success  200  {object}  pageResponse
// @Router   /help [get]
func (h *PageHandler) Help(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{
		Page:    "help",
		Message: "Log in with POST /login, then browse /books. Administrators can read /api/{kind}.",
	})
}

// TestAdmin handles GET /test_admin, reachable by holders of every role in
// all_of(admin).
//
// @Summary   Admin-only check page
// @Tags      pages
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  pageResponse
// @Failure   401  {object}  errorResponse
// @Failure   403  {object}  errorResponse
// @Router    /test_admin [get]
func (h *PageHandler) TestAdmin(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{
		Page:    "test_admin",
		Message: "You are an administrator.",
		User:    displayName(middleware.RequestContextFrom(c)),
	})
}

// TestUser handles GET /test_user, reachable by holders of any role in
// any_of(admin,user).
//
// @Summary   Member check page
// @Tags      pages
// @Produce   json
// @Security  BearerAuth
// @Success   200  {object}  pageResponse
// @Failure   401  {object}  errorResponse
// @Failure   403  {object}  errorResponse
// @Router    /test_user [get]
func (h *PageHandler) TestUser(c echo.Context) error {
	return c.JSON(http.StatusOK, pageResponse{
		Page:    "test_user",
		Message: "You are a member.",
		User:    displayName(middleware.RequestContextFrom(c)),
	})
}
