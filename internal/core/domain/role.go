package domain

import (
	"sort"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Role is a named permission grouping. Roles are seeded once and referenced by
// accounts through RoleAssignment; they are never owned by an account.
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Permissions string `json:"permissions,omitempty"`
}

// RoleAssignment is the account–role join relation. It has no identity beyond
// the pair other than the storage key.
type RoleAssignment struct {
	ID        string    `json:"id"`
	AccountID string    `json:"user_id"`
	RoleID    string    `json:"role_id"`
	CreatedAt time.Time `json:"-"`
}

// RoleSet is a set of role names.
type RoleSet map[string]struct{}

func NewRoleSet(names ...string) RoleSet {
	s := make(RoleSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

func (s RoleSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the role names in lexical order.
func (s RoleSet) Names() []string {
	out := make([]string, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
