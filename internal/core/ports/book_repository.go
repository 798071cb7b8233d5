package ports

import (
	"context"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// BookRepository persists catalog records. Lookups of unknown ids return
// domain.ErrBookNotFound.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	FindByID(ctx context.Context, id string) (*domain.Book, error)
	List(ctx context.Context) ([]*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id string) error
}
