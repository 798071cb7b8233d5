package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/entity"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

var errUnknownRelation = errors.New("unknown relation")

// EntityService serves allow-listed kinds through the generic serializer.
type EntityService struct {
	allow      entity.AllowList
	source     *CatalogSource
	serializer *entity.Serializer
	log        zerolog.Logger
}

func NewEntityService(
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	assignments ports.RoleAssignmentRepository,
	books ports.BookRepository,
	log zerolog.Logger,
) *EntityService {
	src := &CatalogSource{accounts: accounts, roles: roles, assignments: assignments, books: books}
	return &EntityService{
		allow:      entity.ExposedKinds(),
		source:     src,
		serializer: entity.NewSerializer(entity.NewCatalog(), src),
		log:        log,
	}
}

// List serializes every record of name. The allow-list is checked first.
func (s *EntityService) List(ctx context.Context, name string) ([]entity.Document, error) {
	kind, err := s.allow.Resolve(name)
	if err != nil {
		return nil, err
	}

	records, err := s.source.List(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", name, err)
	}

	docs := make([]entity.Document, 0, len(records))
	for _, rec := range records {
		doc, err := s.serializer.Serialize(ctx, rec)
		if err != nil {
			s.log.Error().Err(err).Str("kind", kind).Str("key", rec.Key).Msg("serialize failed")
			return nil, fmt.Errorf("serialize %s/%s: %w", kind, rec.Key, err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// CatalogSource exposes the repositories to the serializer as records.
type CatalogSource struct {
	accounts    ports.AccountRepository
	roles       ports.RoleRepository
	assignments ports.RoleAssignmentRepository
	books       ports.BookRepository
}

func (c *CatalogSource) List(ctx context.Context, kind string) ([]entity.Record, error) {
	switch kind {
	case entity.KindAccount:
		accounts, err := c.accounts.List(ctx)
		if err != nil {
			return nil, err
		}
		return accountRecords(accounts), nil
	case entity.KindRole:
		roles, err := c.roles.List(ctx)
		if err != nil {
			return nil, err
		}
		return roleRecords(roles), nil
	case entity.KindRoleAssignment:
		assigned, err := c.assignments.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]entity.Record, 0, len(assigned))
		for _, a := range assigned {
			out = append(out, assignmentRecord(a))
		}
		return out, nil
	case entity.KindBook:
		books, err := c.books.List(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]entity.Record, 0, len(books))
		for _, b := range books {
			out = append(out, bookRecord(b))
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", entity.ErrUnknownKind, kind)
}

// Related resolves the many-to-many between accounts and roles through the
// assignment table, keeping assignment order.
func (c *CatalogSource) Related(ctx context.Context, rec entity.Record, rel entity.Relation) ([]entity.Record, error) {
	switch rec.Kind + "." + rel.Name {
	case entity.KindAccount + ".roles":
		assigned, err := c.assignments.ListByAccount(ctx, rec.Key)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(assigned))
		for _, a := range assigned {
			ids = append(ids, a.RoleID)
		}
		roles, err := c.roles.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return roleRecords(roles), nil
	case entity.KindRole + ".users":
		assigned, err := c.assignments.ListByRole(ctx, rec.Key)
		if err != nil {
			return nil, err
		}
		ids := make([]string, 0, len(assigned))
		for _, a := range assigned {
			ids = append(ids, a.AccountID)
		}
		accounts, err := c.accounts.FindByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		return accountRecords(accounts), nil
	}
	return nil, fmt.Errorf("%w: %s.%s", errUnknownRelation, rec.Kind, rel.Name)
}

func accountRecords(accounts []*domain.Account) []entity.Record {
	out := make([]entity.Record, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, entity.Record{Kind: entity.KindAccount, Key: a.ID, Fields: map[string]any{
			"id":               a.ID,
			"email":            a.Email,
			"username":         optional(a.Username),
			"last_login_at":    optional(a.LastLoginAt),
			"current_login_at": optional(a.CurrentLoginAt),
			"last_login_ip":    a.LastLoginIP,
			"current_login_ip": a.CurrentLoginIP,
			"login_count":      a.LoginCount,
			"active":           a.Active,
			"fs_uniquifier":    a.Uniquifier,
			"confirmed_at":     optional(a.ConfirmedAt),
		}})
	}
	return out
}

func roleRecords(roles []*domain.Role) []entity.Record {
	out := make([]entity.Record, 0, len(roles))
	for _, r := range roles {
		out = append(out, entity.Record{Kind: entity.KindRole, Key: r.ID, Fields: map[string]any{
			"id":          r.ID,
			"name":        r.Name,
			"description": r.Description,
			"permissions": r.Permissions,
		}})
	}
	return out
}

func assignmentRecord(a *domain.RoleAssignment) entity.Record {
	return entity.Record{Kind: entity.KindRoleAssignment, Key: a.ID, Fields: map[string]any{
		"id":      a.ID,
		"user_id": a.AccountID,
		"role_id": a.RoleID,
	}}
}

func bookRecord(b *domain.Book) entity.Record {
	return entity.Record{Kind: entity.KindBook, Key: b.ID, Fields: map[string]any{
		"id":           b.ID,
		"title":        b.Title,
		"release_date": b.ReleaseDate.Format(domain.DateLayout),
	}}
}

// optional unwraps a nullable column so absent values serialize as null.
func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
