package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bookshelf/secureapp/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories shared by the service tests
// ---------------------------------------------------------------------------

type stubAccountRepo struct {
	mu    sync.Mutex
	byID  map[string]*domain.Account
	order []string
	calls int
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	c := *a
	return &c
}

func (r *stubAccountRepo) Create(_ context.Context, a *domain.Account) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, existing := range r.byID {
		switch {
		case existing.Email == a.Email:
			return nil, &domain.DuplicateIdentityError{Field: "email"}
		case a.Username != nil && existing.Username != nil && *existing.Username == *a.Username:
			return nil, &domain.DuplicateIdentityError{Field: "username"}
		case existing.Uniquifier == a.Uniquifier:
			return nil, &domain.DuplicateIdentityError{Field: "fs_uniquifier"}
		}
	}
	c := cloneAccount(a)
	c.ID = fmt.Sprintf("acc-%d", len(r.order)+1)
	r.byID[c.ID] = c
	r.order = append(r.order, c.ID)
	return cloneAccount(c), nil
}

func (r *stubAccountRepo) find(match func(*domain.Account) bool) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	for _, id := range r.order {
		if a := r.byID[id]; match(a) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.ID == id })
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Email == email })
}

func (r *stubAccountRepo) FindByUsername(_ context.Context, username string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Username != nil && *a.Username == username })
}

func (r *stubAccountRepo) FindByUniquifier(_ context.Context, token string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Uniquifier == token })
}

func (r *stubAccountRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := make([]*domain.Account, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.byID[id]; ok {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubAccountRepo) List(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	out := make([]*domain.Account, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneAccount(r.byID[id]))
	}
	return out, nil
}

func (r *stubAccountRepo) UpdateLoginTelemetry(_ context.Context, a *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	existing, ok := r.byID[a.ID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	existing.LastLoginAt = a.LastLoginAt
	existing.CurrentLoginAt = a.CurrentLoginAt
	existing.LastLoginIP = a.LastLoginIP
	existing.CurrentLoginIP = a.CurrentLoginIP
	existing.LoginCount = a.LoginCount
	return nil
}

type stubRoleRepo struct {
	byID  map[string]*domain.Role
	order []string
	calls int
}

func newStubRoleRepo(names ...string) *stubRoleRepo {
	r := &stubRoleRepo{byID: make(map[string]*domain.Role)}
	for _, n := range names {
		_, _ = r.Create(context.Background(), &domain.Role{Name: n, Description: n})
	}
	r.calls = 0
	return r
}

func (r *stubRoleRepo) Create(_ context.Context, role *domain.Role) (*domain.Role, error) {
	r.calls++
	for _, existing := range r.byID {
		if existing.Name == role.Name {
			return nil, &domain.DuplicateIdentityError{Field: "name"}
		}
	}
	c := *role
	c.ID = fmt.Sprintf("role-%d", len(r.order)+1)
	r.byID[c.ID] = &c
	r.order = append(r.order, c.ID)
	out := c
	return &out, nil
}

func (r *stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	r.calls++
	for _, id := range r.order {
		if r.byID[id].Name == name {
			c := *r.byID[id]
			return &c, nil
		}
	}
	return nil, domain.ErrRoleNotFound
}

func (r *stubRoleRepo) FindByIDs(_ context.Context, ids []string) ([]*domain.Role, error) {
	r.calls++
	out := make([]*domain.Role, 0, len(ids))
	for _, id := range ids {
		if role, ok := r.byID[id]; ok {
			c := *role
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) List(_ context.Context) ([]*domain.Role, error) {
	r.calls++
	out := make([]*domain.Role, 0, len(r.order))
	for _, id := range r.order {
		c := *r.byID[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubRoleRepo) id(name string) string {
	for id, role := range r.byID {
		if role.Name == name {
			return id
		}
	}
	return ""
}

type stubAssignmentRepo struct {
	rows  []*domain.RoleAssignment
	calls int
}

func (r *stubAssignmentRepo) Grant(_ context.Context, accountID, roleID string) error {
	r.calls++
	for _, a := range r.rows {
		if a.AccountID == accountID && a.RoleID == roleID {
			return nil
		}
	}
	r.rows = append(r.rows, &domain.RoleAssignment{
		ID:        fmt.Sprintf("ra-%d", len(r.rows)+1),
		AccountID: accountID,
		RoleID:    roleID,
	})
	return nil
}

func (r *stubAssignmentRepo) Revoke(_ context.Context, accountID, roleID string) error {
	r.calls++
	kept := r.rows[:0]
	for _, a := range r.rows {
		if a.AccountID == accountID && a.RoleID == roleID {
			continue
		}
		kept = append(kept, a)
	}
	r.rows = kept
	return nil
}

func (r *stubAssignmentRepo) filter(match func(*domain.RoleAssignment) bool) []*domain.RoleAssignment {
	r.calls++
	var out []*domain.RoleAssignment
	for _, a := range r.rows {
		if match(a) {
			c := *a
			out = append(out, &c)
		}
	}
	return out
}

func (r *stubAssignmentRepo) ListByAccount(_ context.Context, accountID string) ([]*domain.RoleAssignment, error) {
	return r.filter(func(a *domain.RoleAssignment) bool { return a.AccountID == accountID }), nil
}

func (r *stubAssignmentRepo) ListByRole(_ context.Context, roleID string) ([]*domain.RoleAssignment, error) {
	return r.filter(func(a *domain.RoleAssignment) bool { return a.RoleID == roleID }), nil
}

func (r *stubAssignmentRepo) List(_ context.Context) ([]*domain.RoleAssignment, error) {
	return r.filter(func(*domain.RoleAssignment) bool { return true }), nil
}

type stubBookRepo struct {
	byID      map[string]*domain.Book
	order     []string
	seq       int
	calls     int
	createErr error
}

func newStubBookRepo() *stubBookRepo {
	return &stubBookRepo{byID: make(map[string]*domain.Book)}
}

func (r *stubBookRepo) Create(_ context.Context, b *domain.Book) (*domain.Book, error) {
	r.calls++
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	c := *b
	c.ID = fmt.Sprintf("book-%d", r.seq)
	r.byID[c.ID] = &c
	r.order = append(r.order, c.ID)
	out := c
	return &out, nil
}

func (r *stubBookRepo) FindByID(_ context.Context, id string) (*domain.Book, error) {
	r.calls++
	b, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	c := *b
	return &c, nil
}

func (r *stubBookRepo) List(_ context.Context) ([]*domain.Book, error) {
	r.calls++
	out := make([]*domain.Book, 0, len(r.order))
	for _, id := range r.order {
		c := *r.byID[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r *stubBookRepo) Update(_ context.Context, b *domain.Book) error {
	r.calls++
	if _, ok := r.byID[b.ID]; !ok {
		return domain.ErrBookNotFound
	}
	c := *b
	r.byID[b.ID] = &c
	return nil
}

func (r *stubBookRepo) Delete(_ context.Context, id string) error {
	r.calls++
	if _, ok := r.byID[id]; !ok {
		return domain.ErrBookNotFound
	}
	delete(r.byID, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

type stubSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	ttls     map[string]time.Duration
	saves    int
	findErr  error
	// afterFind runs once Find has returned, outside the lock.
	afterFind func()
}

func newStubSessionStore() *stubSessionStore {
	return &stubSessionStore{sessions: make(map[string]domain.Session), ttls: make(map[string]time.Duration)}
}

func (s *stubSessionStore) Save(_ context.Context, sess domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.sessions[sess.ID] = sess
	s.ttls[sess.ID] = ttl
	return nil
}

func (s *stubSessionStore) Refresh(_ context.Context, sess domain.Session, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sess.ID]; !ok {
		return domain.ErrSessionNotFound
	}
	s.saves++
	s.sessions[sess.ID] = sess
	s.ttls[sess.ID] = ttl
	return nil
}

func (s *stubSessionStore) Find(_ context.Context, id string) (*domain.Session, error) {
	sess, err := s.find(id)
	if s.afterFind != nil {
		s.afterFind()
	}
	return sess, err
}

func (s *stubSessionStore) find(id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findErr != nil {
		return nil, s.findErr
	}
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *stubSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	delete(s.ttls, id)
	return nil
}

// stubTx runs fn inline; it fails the unit of work when err is set.
type stubTx struct {
	runs int
	err  error
}

func (t *stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.runs++
	if t.err != nil {
		return t.err
	}
	return fn(ctx)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.AuthEvent
}

func (p *recordingPublisher) Publish(e domain.AuthEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) kinds() []domain.AuthEventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.AuthEventKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

type stubSchema struct {
	resets int
	err    error
}

func (s *stubSchema) Reset(context.Context) error {
	s.resets++
	return s.err
}

func (s *stubSchema) EnsureIndexes(context.Context) error { return s.err }

// fakeClock is a manually advanced time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
