package entity

import (
	"fmt"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

const (
	KindAccount        = "account"
	KindRole           = "role"
	KindRoleAssignment = "role_assignment"
	KindBook           = "book"
)

// AllowList maps public entity names to registry kinds. Names outside it are
// rejected before any schema lookup or store access.
type AllowList map[string]string

// Resolve returns the kind for name or domain.ErrMethodNotAllowed.
func (a AllowList) Resolve(name string) (string, error) {
	kind, ok := a[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrMethodNotAllowed, name)
	}
	return kind, nil
}

// ExposedKinds is the generic API allow-list.
func ExposedKinds() AllowList {
	return AllowList{
		"users":            KindAccount,
		"roles":            KindRole,
		"role-assignments": KindRoleAssignment,
		"books":            KindBook,
	}
}

// CatalogSchemas describes the application's persisted kinds. Accounts expand
// their roles; the role side's back-reference to accounts is not expanded.
func CatalogSchemas() []Schema {
	return []Schema{
		{
			Kind: KindAccount,
			Fields: []string{
				"id", "email", "username", "last_login_at", "current_login_at",
				"last_login_ip", "current_login_ip", "login_count", "active",
				"fs_uniquifier", "confirmed_at",
			},
			Relations: []Relation{
				{Name: "roles", Target: KindRole, Multiplicity: Many, HasInverse: true},
			},
		},
		{
			Kind:   KindRole,
			Fields: []string{"id", "name", "description", "permissions"},
			Relations: []Relation{
				{Name: "users", Target: KindAccount, Multiplicity: Many, HasInverse: false},
			},
		},
		{
			Kind:   KindRoleAssignment,
			Fields: []string{"id", "user_id", "role_id"},
		},
		{
			Kind:   KindBook,
			Fields: []string{"id", "title", "release_date"},
		},
	}
}

// NewCatalog returns the validated registry for CatalogSchemas.
func NewCatalog() *Registry {
	return MustRegistry(CatalogSchemas()...)
}
