package ports

import (
	"context"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// AccountRepository persists accounts. Writes that collide with a unique
// identity attribute fail with *domain.DuplicateIdentityError.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByUsername(ctx context.Context, username string) (*domain.Account, error)
	FindByUniquifier(ctx context.Context, token string) (*domain.Account, error)
	// FindByIDs returns the accounts in the order of ids, skipping missing ones.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	UpdateLoginTelemetry(ctx context.Context, account *domain.Account) error
}

// RoleRepository persists roles.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	FindByName(ctx context.Context, name string) (*domain.Role, error)
	// FindByIDs returns the roles in the order of ids, skipping missing ones.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Role, error)
	List(ctx context.Context) ([]*domain.Role, error)
}

// RoleAssignmentRepository persists the account–role join relation. Grant and
// Revoke are idempotent.
type RoleAssignmentRepository interface {
	Grant(ctx context.Context, accountID, roleID string) error
	Revoke(ctx context.Context, accountID, roleID string) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.RoleAssignment, error)
	ListByRole(ctx context.Context, roleID string) ([]*domain.RoleAssignment, error)
	List(ctx context.Context) ([]*domain.RoleAssignment, error)
}
