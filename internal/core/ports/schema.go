package ports

import "context"

// SchemaManager owns the physical schema (collections and indexes).
type SchemaManager interface {
	// Reset drops every application collection and recreates the indexes.
	Reset(ctx context.Context) error
	EnsureIndexes(ctx context.Context) error
}
