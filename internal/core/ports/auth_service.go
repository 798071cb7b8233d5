package ports

import (
	"context"
	"time"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	Email    string   `json:"email"    validate:"required,email,max=255"`
	Username string   `json:"username" validate:"omitempty,max=255"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Roles    []string `json:"roles"    validate:"dive,required"`
}

// LoginInput carries the login form. Identifier is an email or a username.
type LoginInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password"   validate:"required"`
	RemoteAddr string `json:"-"`
}

// LoginResult is returned after a successful authentication.
type LoginResult struct {
	Token     string
	Account   *domain.Account
	ExpiresAt time.Time
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Logout(ctx context.Context, token, remoteAddr string) error
}

// AuthEventPublisher accepts audit events without blocking the request on
// their persistence.
type AuthEventPublisher interface {
	Publish(event domain.AuthEvent)
}

// AuthEventRepository stores the authentication audit trail.
type AuthEventRepository interface {
	Insert(ctx context.Context, event *domain.AuthEvent) error
}
