// Package entity serializes persisted records into transport documents
// driven by an explicit schema registry. Each kind declares its scalar fields
// and its relations ahead of time; nothing is discovered at runtime.
//
// Only relations carrying an inverse marker are expanded. NewRegistry refuses
// schema sets in which inverse-marked relations can lead back to a kind
// already on the path, so expansion always terminates for a valid registry.
package entity

import (
	"errors"
	"fmt"
)

// Multiplicity tells whether a relation yields one record or an ordered list.
type Multiplicity int

const (
	One Multiplicity = iota
	Many
)

// Relation describes a named link from one kind to another.
type Relation struct {
	Name         string
	Target       string
	Multiplicity Multiplicity
	// HasInverse marks the relation as owning a registered back-reference.
	// Relations without it are never expanded.
	HasInverse bool
}

// Schema declares the shape of one kind.
type Schema struct {
	Kind      string
	Fields    []string
	Relations []Relation
}

var (
	ErrUnknownKind   = errors.New("entity: unknown kind")
	ErrCyclicSchema  = errors.New("entity: inverse-marked relations form a cycle")
	ErrInvalidSchema = errors.New("entity: invalid schema")
)

// Registry holds the schemas of every serializable kind.
type Registry struct {
	schemas map[string]Schema
}

// NewRegistry validates and indexes schemas.
func NewRegistry(schemas ...Schema) (*Registry, error) {
	r := &Registry{schemas: make(map[string]Schema, len(schemas))}
	for _, s := range schemas {
		if s.Kind == "" {
			return nil, fmt.Errorf("%w: empty kind", ErrInvalidSchema)
		}
		if _, dup := r.schemas[s.Kind]; dup {
			return nil, fmt.Errorf("%w: kind %q declared twice", ErrInvalidSchema, s.Kind)
		}
		r.schemas[s.Kind] = s
	}
	for _, s := range r.schemas {
		for _, rel := range s.Relations {
			if _, ok := r.schemas[rel.Target]; !ok {
				return nil, fmt.Errorf("%w: %s.%s targets unknown kind %q", ErrInvalidSchema, s.Kind, rel.Name, rel.Target)
			}
		}
	}
	if err := r.checkAcyclic(); err != nil {
		return nil, err
	}
	return r, nil
}

// MustRegistry is NewRegistry for static schema sets.
func MustRegistry(schemas ...Schema) *Registry {
	r, err := NewRegistry(schemas...)
	if err != nil {
		panic(err)
	}
	return r
}

// Schema returns the schema registered for kind.
func (r *Registry) Schema(kind string) (Schema, bool) {
	s, ok := r.schemas[kind]
	return s, ok
}

// checkAcyclic walks the graph of expandable relations (kind → target for
// every HasInverse relation) and fails on any back edge.
func (r *Registry) checkAcyclic() error {
	const (
		unvisited = iota
		onPath
		done
	)
	state := make(map[string]int, len(r.schemas))

	var visit func(kind string) error
	visit = func(kind string) error {
		state[kind] = onPath
		for _, rel := range r.schemas[kind].Relations {
			if !rel.HasInverse {
				continue
			}
			switch state[rel.Target] {
			case onPath:
				return fmt.Errorf("%w: %s.%s -> %s", ErrCyclicSchema, kind, rel.Name, rel.Target)
			case unvisited:
				if err := visit(rel.Target); err != nil {
					return err
				}
			}
		}
		state[kind] = done
		return nil
	}

	for kind := range r.schemas {
		if state[kind] == unvisited {
			if err := visit(kind); err != nil {
				return err
			}
		}
	}
	return nil
}
