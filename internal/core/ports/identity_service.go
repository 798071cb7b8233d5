package ports

import (
	"context"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// IdentityService answers who an account is and which roles it holds.
type IdentityService interface {
	FindAccount(ctx context.Context, subject string) (*domain.Account, error)
	FindAccountByID(ctx context.Context, id string) (*domain.Account, error)
	RolesOf(ctx context.Context, account *domain.Account) (domain.RoleSet, error)
	GrantRole(ctx context.Context, accountID, roleName string) error
	RevokeRole(ctx context.Context, accountID, roleName string) error
}
