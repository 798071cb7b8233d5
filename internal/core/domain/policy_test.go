package domain

import (
	"errors"
	"testing"
	"time"
)

func authenticated(roles ...string) RequestContext {
	return RequestContext{
		Account: &Account{ID: "a1", Email: "a@test.com", Active: true},
		Roles:   NewRoleSet(roles...),
		Now:     time.Now(),
	}
}

func TestPolicy_AllOfRequiresSuperset(t *testing.T) {
	cases := []struct {
		held []string
		need []string
		want bool
	}{
		{held: []string{"admin"}, need: []string{"admin"}, want: true},
		{held: []string{"admin"}, need: []string{"admin", "user"}, want: false},
		{held: []string{"admin", "user"}, need: []string{"admin", "user"}, want: true},
		{held: []string{"admin", "user", "auditor"}, need: []string{"user"}, want: true},
		{held: nil, need: []string{"user"}, want: false},
		{held: nil, need: nil, want: true},
	}
	for _, tc := range cases {
		got := AllOf(tc.need...).Satisfied(NewRoleSet(tc.held...))
		if got != tc.want {
			t.Fatalf("AllOf(%v) held %v: expected %v, got %v", tc.need, tc.held, tc.want, got)
		}
	}
}

func TestPolicy_AnyOfRequiresIntersection(t *testing.T) {
	cases := []struct {
		held []string
		need []string
		want bool
	}{
		{held: []string{"user"}, need: []string{"admin", "user"}, want: true},
		{held: []string{"admin"}, need: []string{"admin", "user"}, want: true},
		{held: []string{"auditor"}, need: []string{"admin", "user"}, want: false},
		{held: nil, need: []string{"admin"}, want: false},
		{held: []string{"admin"}, need: nil, want: false},
	}
	for _, tc := range cases {
		got := AnyOf(tc.need...).Satisfied(NewRoleSet(tc.held...))
		if got != tc.want {
			t.Fatalf("AnyOf(%v) held %v: expected %v, got %v", tc.need, tc.held, tc.want, got)
		}
	}
}

func TestAuthorize_AdminScenarios(t *testing.T) {
	rc := authenticated(RoleAdmin)

	if err := Authorize(rc, AllOf(RoleAdmin)); err != nil {
		t.Fatalf("expected admin to pass AllOf(admin), got %v", err)
	}
	if err := Authorize(rc, AllOf(RoleAdmin, RoleUser)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for AllOf(admin,user), got %v", err)
	}
}

func TestAuthorize_UserPassesAnyOf(t *testing.T) {
	if err := Authorize(authenticated(RoleUser), AnyOf(RoleAdmin, RoleUser)); err != nil {
		t.Fatalf("expected user to pass AnyOf(admin,user), got %v", err)
	}
}

func TestAuthorize_AnonymousIsUnauthenticatedNeverForbidden(t *testing.T) {
	rc := Anonymous(time.Now())
	policies := []Policy{
		AllOf(RoleAdmin),
		AllOf(RoleAdmin, RoleUser),
		AnyOf(RoleAdmin, RoleUser),
		AllOf(),
	}
	for _, p := range policies {
		err := Authorize(rc, p)
		if !errors.Is(err, ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", p, err)
		}
		if errors.Is(err, ErrForbidden) {
			t.Fatalf("%s: anonymous request must not be reported as forbidden", p)
		}
	}
}

func TestPolicy_String(t *testing.T) {
	if got := AnyOf("admin", "user").String(); got != "any_of(admin,user)" {
		t.Fatalf("unexpected policy string: %s", got)
	}
	if got := AllOf("admin").String(); got != "all_of(admin)" {
		t.Fatalf("unexpected policy string: %s", got)
	}
}
