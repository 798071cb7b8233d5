package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
	"github.com/bookshelf/secureapp/internal/pkg/validation"
)

// BookService implements the catalog CRUD use cases. Every mutation is
// validated in full before the repository is touched.
type BookService struct {
	repo     ports.BookRepository
	validate *validation.Validator
	log      zerolog.Logger
}

func NewBookService(repo ports.BookRepository, log zerolog.Logger) *BookService {
	return &BookService{repo: repo, validate: validation.New(), log: log}
}

func (s *BookService) List(ctx context.Context) ([]*domain.Book, error) {
	return s.repo.List(ctx)
}

func (s *BookService) Get(ctx context.Context, id string) (*domain.Book, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BookService) Create(ctx context.Context, in ports.BookInput) (*domain.Book, error) {
	book, err := s.fromInput(in)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, book)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create book")
		return nil, err
	}
	s.log.Info().Str("book_id", created.ID).Msg("book created")
	return created, nil
}

// Update replaces the book's fields. Unknown ids fail before validation.
func (s *BookService) Update(ctx context.Context, id string, in ports.BookInput) (*domain.Book, error) {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	book, err := s.fromInput(in)
	if err != nil {
		return nil, err
	}
	book.ID = id
	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	s.log.Info().Str("book_id", id).Msg("book updated")
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("book_id", id).Msg("book deleted")
	return nil
}

func (s *BookService) fromInput(in ports.BookInput) (*domain.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.ReleaseDate = strings.TrimSpace(in.ReleaseDate)
	if err := s.validate.Struct(&in); err != nil {
		return nil, err
	}
	released, err := time.Parse(domain.DateLayout, in.ReleaseDate)
	if err != nil {
		return nil, &domain.ValidationError{
			Fields: map[string]string{"release_date": "release_date must be a date in YYYY-MM-DD format"},
			Input:  &in,
		}
	}
	return &domain.Book{Title: in.Title, ReleaseDate: released}, nil
}
