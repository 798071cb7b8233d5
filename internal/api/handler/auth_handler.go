package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/api/middleware"
	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

type AuthHandler struct {
	authService  ports.AuthService
	secureCookie bool
}

// NewAuthHandler builds the auth endpoints. secureCookie marks the session
// cookie Secure, for deployments served over TLS.
func NewAuthHandler(authService ports.AuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{authService: authService, secureCookie: secureCookie}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account registration details"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Roles:    req.Roles,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, registerResponse{
		Account: toAccountResponse(account, domain.NewRoleSet(req.Roles...)),
	})
}

// Login authenticates by email or username and starts a session.
//
// @Summary      Login
// @Description  Returns the session token in the body and as an HttpOnly "session" cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	identifier := req.Identifier
	if identifier == "" {
		identifier = req.Email
	}

	in := ports.LoginInput{
		Identifier: identifier,
		Password:   req.Password,
		RemoteAddr: c.RealIP(),
	}
	if err := c.Validate(&in); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			ve.Input = loginRequest{Identifier: identifier}
		}
		return err
	}

	res, err := h.authService.Login(c.Request().Context(), in)
	if err != nil {
		return err
	}

	c.SetCookie(middleware.SessionCookieFor(res.Token, h.secureCookie))
	return c.JSON(http.StatusOK, loginResponse{
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
		Account:   toAccountResponse(res.Account, nil),
	})
}

// Logout ends the caller's session. Logging out without a live session is
// not an error.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if token := middleware.TokenFrom(c); token != "" {
		err := h.authService.Logout(c.Request().Context(), token, c.RealIP())
		if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
			return err
		}
	}
	c.SetCookie(middleware.SessionCookieFor("", h.secureCookie))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated account and its roles.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  accountResponse
// @Failure      401  {object}  errorResponse
// @Router       /me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	rc, err := currentAccount(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAccountResponse(rc.Account, rc.Roles))
}
