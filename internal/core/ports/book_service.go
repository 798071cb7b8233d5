package ports

import (
	"context"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// BookInput is the create/edit form for a book.
type BookInput struct {
	Title       string `json:"title"        validate:"required,max=255"`
	ReleaseDate string `json:"release_date" validate:"required,datetime=2006-01-02"`
}

type BookService interface {
	List(ctx context.Context) ([]*domain.Book, error)
	Get(ctx context.Context, id string) (*domain.Book, error)
	Create(ctx context.Context, input BookInput) (*domain.Book, error)
	Update(ctx context.Context, id string, input BookInput) (*domain.Book, error)
	Delete(ctx context.Context, id string) error
}
