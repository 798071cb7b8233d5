package domain

import "strings"

// PolicyMode selects how a policy's roles combine.
type PolicyMode int

const (
	// ModeAllOf requires every listed role.
	ModeAllOf PolicyMode = iota
	// ModeAnyOf requires at least one listed role.
	ModeAnyOf
)

func (m PolicyMode) String() string {
	if m == ModeAnyOf {
		return "any_of"
	}
	return "all_of"
}

// Policy is the access requirement attached to a route registration.
type Policy struct {
	Mode  PolicyMode
	Roles []string
}

func AllOf(roles ...string) Policy { return Policy{Mode: ModeAllOf, Roles: roles} }

func AnyOf(roles ...string) Policy { return Policy{Mode: ModeAnyOf, Roles: roles} }

// Satisfied reports whether held meets the policy, ignoring authentication.
// AllOf with no roles is satisfied by anyone; AnyOf with no roles by no one.
func (p Policy) Satisfied(held RoleSet) bool {
	switch p.Mode {
	case ModeAnyOf:
		for _, r := range p.Roles {
			if held.Has(r) {
				return true
			}
		}
		return false
	default:
		for _, r := range p.Roles {
			if !held.Has(r) {
				return false
			}
		}
		return true
	}
}

func (p Policy) String() string {
	return p.Mode.String() + "(" + strings.Join(p.Roles, ",") + ")"
}

// Authorize is the single evaluation point for route policies. Session
// absence is always reported before role insufficiency.
func Authorize(rc RequestContext, p Policy) error {
	if !rc.Authenticated() {
		return ErrUnauthenticated
	}
	if !p.Satisfied(rc.Roles) {
		return ErrForbidden
	}
	return nil
}
