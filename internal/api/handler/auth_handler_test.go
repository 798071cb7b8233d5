package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/secureapp/internal/api/middleware"
	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error)
	logoutFn   func(ctx context.Context, token, remoteAddr string) error
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	return s.loginFn(ctx, in)
}

func (s *stubAuthService) Logout(ctx context.Context, token, remoteAddr string) error {
	return s.logoutFn(ctx, token, remoteAddr)
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			if in.Email != "a@example.com" || in.Password != "long-enough" || len(in.Roles) != 1 || in.Roles[0] != "user" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.Account{ID: "acc-1", Email: in.Email, Active: true}, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"email":"a@example.com","password":"long-enough","roles":["user"]}`), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	account, ok := resp["account"].(map[string]any)
	if !ok {
		t.Fatalf("expected account in response")
	}
	if account["id"] != "acc-1" || account["email"] != "a@example.com" {
		t.Fatalf("unexpected account payload: %+v", account)
	}
	if _, leaked := account["password_hash"]; leaked {
		t.Fatal("password hash must never be rendered")
	}
}

func TestAuthHandler_Register_PropagatesDomainErrors(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			return nil, &domain.DuplicateIdentityError{Field: "email"}
		},
	}
	handler := NewAuthHandler(stub, false)

	c := e.NewContext(jsonRequest(http.MethodPost, "/register", `{"email":"a@example.com"}`), httptest.NewRecorder())

	if err := handler.Register(c); !errors.Is(err, domain.ErrDuplicateIdentity) {
		t.Fatalf("expected ErrDuplicateIdentity, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	c := e.NewContext(jsonRequest(http.MethodPost, "/register", "not-json"), httptest.NewRecorder())

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	e := echo.New()
	expires := time.Date(2024, 3, 1, 12, 5, 0, 0, time.UTC)
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.Identifier != "alice" || in.Password != "long-enough" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if in.RemoteAddr == "" {
				t.Fatal("expected the remote address to be forwarded")
			}
			return &ports.LoginResult{
				Token:     "tkn",
				Account:   &domain.Account{ID: "acc-1", Email: "a@example.com", Active: true, LoginCount: 1},
				ExpiresAt: expires,
			}, nil
		},
	}
	e.Validator = NewValidator()
	handler := NewAuthHandler(stub, true)

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"identifier":"alice","password":"long-enough"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "tkn" || !resp.ExpiresAt.Equal(expires) {
		t.Fatalf("unexpected response: %+v", resp)
	}

	cookie := rec.Result().Cookies()
	if len(cookie) != 1 || cookie[0].Name != middleware.SessionCookie || cookie[0].Value != "tkn" || !cookie[0].HttpOnly || !cookie[0].Secure {
		t.Fatalf("unexpected cookies: %+v", cookie)
	}
}

func TestAuthHandler_Login_EmailFieldFallback(t *testing.T) {
	e := echo.New()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			if in.Identifier != "a@example.com" {
				t.Fatalf("expected email as identifier, got %q", in.Identifier)
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	e.Validator = NewValidator()
	handler := NewAuthHandler(stub, false)

	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"email":"a@example.com","password":"x"}`), httptest.NewRecorder())

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingPassword(t *testing.T) {
	e := echo.New()
	e.Validator = NewValidator()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub, false)

	c := e.NewContext(jsonRequest(http.MethodPost, "/login", `{"identifier":"alice"}`), httptest.NewRecorder())

	err := handler.Login(c)
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if _, ok := ve.Fields["password"]; !ok {
		t.Fatalf("expected password message, got %v", ve.Fields)
	}
	if in, ok := ve.Input.(loginRequest); !ok || in.Identifier != "alice" || in.Password != "" {
		t.Fatalf("unexpected redisplayed input: %#v", ve.Input)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	tests := []struct {
		name      string
		token     string
		logoutErr error
		wantCalls int
	}{
		{"live session", "tkn", nil, 1},
		{"already expired", "tkn", domain.ErrUnauthenticated, 1},
		{"anonymous", "", nil, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			calls := 0
			stub := &stubAuthService{
				logoutFn: func(ctx context.Context, token, remoteAddr string) error {
					calls++
					if token != tc.token {
						t.Fatalf("expected token %q, got %q", tc.token, token)
					}
					return tc.logoutErr
				},
			}
			handler := NewAuthHandler(stub, false)

			req := httptest.NewRequest(http.MethodPost, "/logout", nil)
			if tc.token != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tc.token)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			if err := handler.Logout(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusNoContent {
				t.Fatalf("expected 204, got %d", rec.Code)
			}
			if calls != tc.wantCalls {
				t.Fatalf("expected %d logout calls, got %d", tc.wantCalls, calls)
			}
			cookies := rec.Result().Cookies()
			if len(cookies) != 1 || cookies[0].MaxAge >= 0 {
				t.Fatalf("expected a clearing cookie, got %+v", cookies)
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	e := echo.New()
	handler := NewAuthHandler(&stubAuthService{}, false)

	t.Run("anonymous", func(t *testing.T) {
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), httptest.NewRecorder())
		if err := handler.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("authenticated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/me", nil), rec)
		middleware.WithRequestContext(c, domain.RequestContext{
			Account: &domain.Account{ID: "acc-1", Email: "a@example.com", Active: true},
			Roles:   domain.NewRoleSet(domain.RoleUser, domain.RoleAdmin),
		})

		if err := handler.Me(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var resp accountResponse
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
		if resp.ID != "acc-1" || len(resp.Roles) != 2 || resp.Roles[0] != domain.RoleAdmin {
			t.Fatalf("unexpected response: %+v", resp)
		}
	})
}
