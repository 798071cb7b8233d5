package ports

import (
	"context"

	"github.com/bookshelf/secureapp/internal/core/entity"
)

// EntityService serves the generic read-only API.
type EntityService interface {
	// List serializes every record of the allow-listed name. Names outside
	// the allow-list fail with domain.ErrMethodNotAllowed.
	List(ctx context.Context, name string) ([]entity.Document, error)
}
