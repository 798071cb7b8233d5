package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/api/middleware"
	"github.com/bookshelf/secureapp/internal/core/domain"
)

func TestPageHandler_HomeGreetsCaller(t *testing.T) {
	e := echo.New()
	handler := NewPageHandler()
	username := "alice"

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	middleware.WithRequestContext(c, domain.RequestContext{
		Account: &domain.Account{ID: "acc-1", Email: "a@example.com", Username: &username},
		Roles:   domain.NewRoleSet(domain.RoleUser),
	})

	if err := handler.Home(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp pageResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp.Page != "home" || resp.User != "alice" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestPageHandler_PublicPagesForAnonymous(t *testing.T) {
	e := echo.New()
	handler := NewPageHandler()

	for path, h := range map[string]echo.HandlerFunc{"/": handler.Home, "/help": handler.Help} {
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(httptest.NewRequest(http.MethodGet, path, nil), rec)); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var resp pageResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.User != "" {
			t.Fatalf("%s: anonymous caller must not be named, got %q", path, resp.User)
		}
	}
}
