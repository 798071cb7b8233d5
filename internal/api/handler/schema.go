package handler

import (
	"time"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Field  string            `json:"field,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Auth ---

type registerRequest struct {
	Email    string   `json:"email"    form:"email"`
	Username string   `json:"username" form:"username"`
	Password string   `json:"password" form:"password"`
	Roles    []string `json:"roles"    form:"roles"`
}

// loginRequest accepts the identifier under "identifier", or under "email"
// as the classic login form names it.
type loginRequest struct {
	Identifier string `json:"identifier" form:"identifier"`
	Email      string `json:"email"      form:"email"`
	Password   string `json:"password"   form:"password"`
}

type accountResponse struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	Username       *string    `json:"username"`
	Active         bool       `json:"active"`
	LoginCount     int        `json:"login_count"`
	LastLoginAt    *time.Time `json:"last_login_at"`
	CurrentLoginAt *time.Time `json:"current_login_at"`
	Roles          []string   `json:"roles,omitempty"`
}

type registerResponse struct {
	Account accountResponse `json:"account"`
}

type loginResponse struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Account   accountResponse `json:"account"`
}

func toAccountResponse(a *domain.Account, roles domain.RoleSet) accountResponse {
	resp := accountResponse{
		ID:             a.ID,
		Email:          a.Email,
		Username:       a.Username,
		Active:         a.Active,
		LoginCount:     a.LoginCount,
		LastLoginAt:    a.LastLoginAt,
		CurrentLoginAt: a.CurrentLoginAt,
	}
	if roles != nil {
		resp.Roles = roles.Names()
	}
	return resp
}

// --- Books ---

type bookRequest struct {
	Title       string `json:"title"        form:"title"`
	ReleaseDate string `json:"release_date" form:"release_date"`
}

type bookResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	ReleaseDate string `json:"release_date"`
}

type bookListResponse struct {
	Books []bookResponse `json:"books"`
}

type fieldSpec struct {
	Required  bool   `json:"required"`
	MaxLength int    `json:"max_length,omitempty"`
	Format    string `json:"format,omitempty"`
}

// bookFormResponse describes the create/edit form: its constraints, current
// values and where to submit it.
type bookFormResponse struct {
	Action string               `json:"action"`
	Fields map[string]fieldSpec `json:"fields"`
	Values bookRequest          `json:"values"`
}

var bookFormFields = map[string]fieldSpec{
	"title":        {Required: true, MaxLength: domain.BookTitleMaxLen},
	"release_date": {Required: true, Format: "YYYY-MM-DD"},
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{ID: b.ID, Title: b.Title, ReleaseDate: b.ReleaseDate.Format(domain.DateLayout)}
}

// --- Pages ---

type pageResponse struct {
	Page    string `json:"page"`
	Message string `json:"message"`
	User    string `json:"user,omitempty"`
}
