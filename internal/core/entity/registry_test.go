package entity

import (
	"errors"
	"testing"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

func TestNewRegistry_CatalogIsValid(t *testing.T) {
	if _, err := NewRegistry(CatalogSchemas()...); err != nil {
		t.Fatalf("catalog rejected: %v", err)
	}
}

func TestNewRegistry_RejectsInverseMarkedOnBothSides(t *testing.T) {
	_, err := NewRegistry(
		Schema{Kind: "a", Relations: []Relation{{Name: "bs", Target: "b", Multiplicity: Many, HasInverse: true}}},
		Schema{Kind: "b", Relations: []Relation{{Name: "as", Target: "a", Multiplicity: Many, HasInverse: true}}},
	)
	if !errors.Is(err, ErrCyclicSchema) {
		t.Fatalf("expected ErrCyclicSchema, got %v", err)
	}
}

func TestNewRegistry_RejectsLongerCycle(t *testing.T) {
	_, err := NewRegistry(
		Schema{Kind: "a", Relations: []Relation{{Name: "b", Target: "b", HasInverse: true}}},
		Schema{Kind: "b", Relations: []Relation{{Name: "c", Target: "c", HasInverse: true}}},
		Schema{Kind: "c", Relations: []Relation{{Name: "a", Target: "a", HasInverse: true}}},
	)
	if !errors.Is(err, ErrCyclicSchema) {
		t.Fatalf("expected ErrCyclicSchema, got %v", err)
	}
}

func TestNewRegistry_RejectsSelfReference(t *testing.T) {
	_, err := NewRegistry(Schema{Kind: "node", Relations: []Relation{{Name: "parent", Target: "node", HasInverse: true}}})
	if !errors.Is(err, ErrCyclicSchema) {
		t.Fatalf("expected ErrCyclicSchema, got %v", err)
	}
}

func TestNewRegistry_AcceptsDiamond(t *testing.T) {
	_, err := NewRegistry(
		Schema{Kind: "a", Relations: []Relation{
			{Name: "b", Target: "b", HasInverse: true},
			{Name: "c", Target: "c", HasInverse: true},
		}},
		Schema{Kind: "b", Relations: []Relation{{Name: "d", Target: "d", HasInverse: true}}},
		Schema{Kind: "c", Relations: []Relation{{Name: "d", Target: "d", HasInverse: true}}},
		Schema{Kind: "d"},
	)
	if err != nil {
		t.Fatalf("diamond must be accepted, got %v", err)
	}
}

func TestNewRegistry_RejectsUnknownTargetAndDuplicates(t *testing.T) {
	if _, err := NewRegistry(Schema{Kind: "a", Relations: []Relation{{Name: "x", Target: "missing"}}}); !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema for unknown target, got %v", err)
	}
	if _, err := NewRegistry(Schema{Kind: "a"}, Schema{Kind: "a"}); !errors.Is(err, ErrInvalidSchema) {
		t.Fatalf("expected ErrInvalidSchema for duplicate kind, got %v", err)
	}
}

func TestAllowList_Resolve(t *testing.T) {
	allow := ExposedKinds()
	for name, kind := range map[string]string{
		"users": KindAccount, "roles": KindRole, "role-assignments": KindRoleAssignment, "books": KindBook,
	} {
		got, err := allow.Resolve(name)
		if err != nil || got != kind {
			t.Fatalf("%s: expected %s, got %s (%v)", name, kind, got, err)
		}
	}
	for _, name := range []string{"account", "Users", "sessions", "", "auth_events"} {
		if _, err := allow.Resolve(name); !errors.Is(err, domain.ErrMethodNotAllowed) {
			t.Fatalf("%q: expected ErrMethodNotAllowed, got %v", name, err)
		}
	}
}
