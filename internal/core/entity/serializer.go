package entity

import (
	"context"
	"errors"
	"fmt"
)

// Document is the transport form of a record: scalar values, nested
// Documents, or ordered []Document.
type Document map[string]any

// Record is a persisted entity as seen by the serializer.
type Record struct {
	Kind   string
	Key    string
	Fields map[string]any
}

// Lister scans every record of a kind.
type Lister interface {
	List(ctx context.Context, kind string) ([]Record, error)
}

// Resolver fetches the records on the far side of a relation, in fetch order.
type Resolver interface {
	Related(ctx context.Context, rec Record, rel Relation) ([]Record, error)
}

// ErrCyclicRelation is returned when a record is reached again through its own
// expansion. A validated registry never produces it.
var ErrCyclicRelation = errors.New("entity: record reached through itself")

// Serializer turns records into Documents.
type Serializer struct {
	registry *Registry
	resolver Resolver
}

func NewSerializer(registry *Registry, resolver Resolver) *Serializer {
	return &Serializer{registry: registry, resolver: resolver}
}

// Serialize expands rec into a Document.
func (s *Serializer) Serialize(ctx context.Context, rec Record) (Document, error) {
	return s.serialize(ctx, rec, make(map[string]struct{}))
}

func (s *Serializer) serialize(ctx context.Context, rec Record, path map[string]struct{}) (Document, error) {
	schema, ok := s.registry.Schema(rec.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, rec.Kind)
	}

	id := rec.Kind + "/" + rec.Key
	if _, seen := path[id]; seen {
		return nil, fmt.Errorf("%w: %s", ErrCyclicRelation, id)
	}
	path[id] = struct{}{}
	defer delete(path, id)

	doc := make(Document, len(schema.Fields)+len(schema.Relations))
	for _, f := range schema.Fields {
		doc[f] = rec.Fields[f]
	}

	for _, rel := range schema.Relations {
		if !rel.HasInverse {
			continue
		}
		related, err := s.resolver.Related(ctx, rec, rel)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", rec.Kind, rel.Name, err)
		}

		if rel.Multiplicity == Many {
			docs := make([]Document, 0, len(related))
			for _, r := range related {
				d, err := s.serialize(ctx, r, path)
				if err != nil {
					return nil, err
				}
				docs = append(docs, d)
			}
			doc[rel.Name] = docs
			continue
		}

		if len(related) == 0 {
			doc[rel.Name] = nil
			continue
		}
		d, err := s.serialize(ctx, related[0], path)
		if err != nil {
			return nil, err
		}
		doc[rel.Name] = d
	}
	return doc, nil
}
