package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

// DefaultSessionWindow is the inactivity window after which a session is
// treated as absent.
const DefaultSessionWindow = 5 * time.Minute

type sessionClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SessionManager issues signed session tokens and keeps a sliding expiry per
// session in the store. The token carries no expiry of its own: the stored
// record is authoritative.
type SessionManager struct {
	store  ports.SessionStore
	secret []byte
	window time.Duration
	now    func() time.Time
}

// SessionOption customises a SessionManager.
type SessionOption func(*SessionManager)

// WithClock replaces the time source.
func WithClock(now func() time.Time) SessionOption {
	return func(m *SessionManager) { m.now = now }
}

func NewSessionManager(store ports.SessionStore, secret string, window time.Duration, opts ...SessionOption) *SessionManager {
	if window <= 0 {
		window = DefaultSessionWindow
	}
	m := &SessionManager{store: store, secret: []byte(secret), window: window, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *SessionManager) Window() time.Duration { return m.window }

// Start moves account into the Authenticated state.
func (m *SessionManager) Start(ctx context.Context, account *domain.Account) (string, *domain.Session, error) {
	now := m.now().UTC()
	s := domain.Session{
		ID:        uuid.NewString(),
		Subject:   domain.SessionSubject(account),
		ExpiresAt: now.Add(m.window),
	}
	if err := m.store.Save(ctx, s, m.window); err != nil {
		return "", nil, fmt.Errorf("start session: %w", err)
	}

	claims := sessionClaims{
		SessionID: s.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  s.Subject,
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", nil, fmt.Errorf("sign session token: %w", err)
	}
	return token, &s, nil
}

// Resolve accepts token if its session is still inside the window and slides
// the expiry to now + window.
func (m *SessionManager) Resolve(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := m.parse(token)
	if err != nil {
		return nil, err
	}

	s, err := m.store.Find(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	if s.Subject != claims.Subject {
		return nil, domain.ErrUnauthenticated
	}

	now := m.now().UTC()
	if s.Expired(now) {
		_ = m.store.Delete(ctx, s.ID)
		return nil, domain.ErrUnauthenticated
	}

	// A logout racing this request has already removed the record; the slide
	// must not bring it back.
	s.ExpiresAt = now.Add(m.window)
	if err := m.store.Refresh(ctx, *s, m.window); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("slide session: %w", err)
	}
	return s, nil
}

// End moves the session back to Anonymous.
func (m *SessionManager) End(ctx context.Context, token string) error {
	claims, err := m.parse(token)
	if err != nil {
		return err
	}
	if err := m.store.Delete(ctx, claims.SessionID); err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	return nil
}

func (m *SessionManager) parse(token string) (*sessionClaims, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}
	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tkn.Valid || claims.SessionID == "" {
		return nil, domain.ErrUnauthenticated
	}
	return claims, nil
}
