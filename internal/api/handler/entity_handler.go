package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/core/ports"
)

// EntityHandler exposes the generic read-only listing of allow-listed kinds.
type EntityHandler struct {
	service ports.EntityService
}

func NewEntityHandler(service ports.EntityService) *EntityHandler {
	return &EntityHandler{service: service}
}

// List handles GET /api/:kind.
//
// @Summary      List entities of a kind
// @Description  Kinds: users, roles, role-assignments, books. Other names answer 405.
// @Tags         api
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path      string  true  "Entity kind"
// @Success      200   {array}   object
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      405   {object}  errorResponse
// @Router       /api/{kind} [get]
func (h *EntityHandler) List(c echo.Context) error {
	docs, err := h.service.List(c.Request().Context(), c.Param("kind"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}
