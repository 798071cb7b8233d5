package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/core/ports"
)

// RoleHandler administers role membership.
type RoleHandler struct {
	identity ports.IdentityService
}

func NewRoleHandler(identity ports.IdentityService) *RoleHandler {
	return &RoleHandler{identity: identity}
}

// Grant handles POST /admin/accounts/:id/roles/:role.
//
// @Summary      Grant a role
// @Tags         admin
// @Security     BearerAuth
// @Param        id    path  string  true  "Account id"
// @Param        role  path  string  true  "Role name"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/accounts/{id}/roles/{role} [post]
func (h *RoleHandler) Grant(c echo.Context) error {
	if err := h.identity.GrantRole(c.Request().Context(), c.Param("id"), c.Param("role")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Revoke handles DELETE /admin/accounts/:id/roles/:role.
//
// @Summary      Revoke a role
// @Tags         admin
// @Security     BearerAuth
// @Param        id    path  string  true  "Account id"
// @Param        role  path  string  true  "Role name"
// @Success      204
// @Failure      404  {object}  errorResponse
// @Router       /admin/accounts/{id}/roles/{role} [delete]
func (h *RoleHandler) Revoke(c echo.Context) error {
	if err := h.identity.RevokeRole(c.Request().Context(), c.Param("id"), c.Param("role")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
