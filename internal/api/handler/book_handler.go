package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/api/metrics"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

// BookHandler serves the catalog CRUD flow. Successful writes answer with
// 303 See Other so form clients follow up with a GET.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /books.
//
// @Summary      List books
// @Tags         books
// @Produce      json
// @Success      200  {object}  bookListResponse
// @Router       /books [get]
func (h *BookHandler) List(c echo.Context) error {
	books, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	resp := bookListResponse{Books: make([]bookResponse, 0, len(books))}
	for _, b := range books {
		resp.Books = append(resp.Books, toBookResponse(b))
	}
	return c.JSON(http.StatusOK, resp)
}

// Show handles GET /books/:id.
//
// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [get]
func (h *BookHandler) Show(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBookResponse(b))
}

// New handles GET /books/new: an empty form.
//
// @Summary      Book creation form
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  bookFormResponse
// @Router       /books/new [get]
func (h *BookHandler) New(c echo.Context) error {
	return c.JSON(http.StatusOK, bookFormResponse{
		Action: "/books",
		Fields: bookFormFields,
	})
}

// Create handles POST /books.
//
// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  bookRequest  true  "Book"
// @Success      303
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /books [post]
func (h *BookHandler) Create(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	b, err := h.service.Create(c.Request().Context(), ports.BookInput{Title: req.Title, ReleaseDate: req.ReleaseDate})
	if err != nil {
		return err
	}
	metrics.BookMutationsTotal.WithLabelValues("create").Inc()
	return c.Redirect(http.StatusSeeOther, "/books/"+b.ID)
}

// Edit handles GET /books/:id/edit: the form pre-filled with current values.
//
// @Summary      Book edit form
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  bookFormResponse
// @Failure      404  {object}  errorResponse
// @Router       /books/{id}/edit [get]
func (h *BookHandler) Edit(c echo.Context) error {
	b, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	current := toBookResponse(b)
	return c.JSON(http.StatusOK, bookFormResponse{
		Action: "/books/" + b.ID + "/edit",
		Fields: bookFormFields,
		Values: bookRequest{Title: current.Title, ReleaseDate: current.ReleaseDate},
	})
}

// Update handles POST /books/:id/edit and PUT /books/:id.
//
// @Summary      Update a book
// @Tags         books
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string       true  "Book id"
// @Param        body  body  bookRequest  true  "Book"
// @Success      303
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /books/{id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	b, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.BookInput{Title: req.Title, ReleaseDate: req.ReleaseDate})
	if err != nil {
		return err
	}
	metrics.BookMutationsTotal.WithLabelValues("update").Inc()
	return c.Redirect(http.StatusSeeOther, "/books/"+b.ID)
}

// Delete handles POST /books/:id/delete and DELETE /books/:id.
//
// @Summary      Delete a book
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  string  true  "Book id"
// @Success      303
// @Failure      404  {object}  errorResponse
// @Router       /books/{id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	metrics.BookMutationsTotal.WithLabelValues("delete").Inc()
	return c.Redirect(http.StatusSeeOther, "/books")
}
