package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

type managedCollection interface {
	collection() *mongo.Collection
	EnsureIndexes(ctx context.Context) error
}

// Schema owns the application's collections and their indexes.
type Schema struct {
	collections []managedCollection
}

// NewSchema returns a Schema covering every repository backed by db.
func NewSchema(db *mongo.Database) *Schema {
	return &Schema{collections: []managedCollection{
		NewAccountRepository(db),
		NewRoleRepository(db),
		NewRoleAssignmentRepository(db),
		NewBookRepository(db),
		NewAuthEventRepository(db),
	}}
}

// Reset drops every collection and recreates the indexes.
func (s *Schema) Reset(ctx context.Context) error {
	for _, c := range s.collections {
		col := c.collection()
		if err := col.Drop(ctx); err != nil {
			return fmt.Errorf("drop %s: %w", col.Name(), err)
		}
	}
	return s.EnsureIndexes(ctx)
}

func (s *Schema) EnsureIndexes(ctx context.Context) error {
	for _, c := range s.collections {
		if err := c.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("indexes %s: %w", c.collection().Name(), err)
		}
	}
	return nil
}
