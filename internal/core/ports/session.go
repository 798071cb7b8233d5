package ports

import (
	"context"
	"time"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// SessionStore keeps the server-side session records. Find returns
// domain.ErrSessionNotFound for unknown or already-evicted ids.
type SessionStore interface {
	// Save writes the record so that it lives for ttl.
	Save(ctx context.Context, session domain.Session, ttl time.Duration) error
	// Refresh rewrites a record that still exists and gives it a new ttl. It
	// never recreates a deleted record: a missing id yields
	// domain.ErrSessionNotFound.
	Refresh(ctx context.Context, session domain.Session, ttl time.Duration) error
	Find(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

// SessionManager drives the Anonymous/Authenticated session state machine.
type SessionManager interface {
	Start(ctx context.Context, account *domain.Account) (string, *domain.Session, error)
	// Resolve validates token and slides the session's expiry. Any rejection
	// is reported as domain.ErrUnauthenticated.
	Resolve(ctx context.Context, token string) (*domain.Session, error)
	End(ctx context.Context, token string) error
	Window() time.Duration
}
