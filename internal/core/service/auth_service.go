package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
	"github.com/bookshelf/secureapp/internal/pkg/validation"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	accounts    ports.AccountRepository
	roles       ports.RoleRepository
	assignments ports.RoleAssignmentRepository
	sessions    ports.SessionManager
	tx          ports.Transactor
	events      ports.AuthEventPublisher
	validate    *validation.Validator
	log         zerolog.Logger
	now         func() time.Time
}

func NewAuthService(
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	assignments ports.RoleAssignmentRepository,
	sessions ports.SessionManager,
	tx ports.Transactor,
	events ports.AuthEventPublisher,
	log zerolog.Logger,
) *AuthService {
	if events == nil {
		events = discardEvents{}
	}
	return &AuthService{
		accounts:    accounts,
		roles:       roles,
		assignments: assignments,
		sessions:    sessions,
		tx:          tx,
		events:      events,
		validate:    validation.New(),
		log:         log,
		now:         time.Now,
	}
}

// Register creates an active account and grants the requested roles in one
// unit of work.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.TrimSpace(in.Username)

	if err := s.validate.Struct(&in); err != nil {
		return nil, redactPassword(err, in)
	}

	roles := make([]*domain.Role, 0, len(in.Roles))
	seen := make(map[string]struct{}, len(in.Roles))
	for _, name := range in.Roles {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		role, err := s.roles.FindByName(ctx, name)
		if errors.Is(err, domain.ErrRoleNotFound) {
			in.Password = ""
			return nil, &domain.ValidationError{
				Fields: map[string]string{"roles": fmt.Sprintf("unknown role %q", name)},
				Input:  &in,
			}
		}
		if err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        in.Email,
		PasswordHash: string(hash),
		Active:       true,
		Uniquifier:   NewUniquifier(),
		CreatedAt:    s.now().UTC(),
	}
	if in.Username != "" {
		username := in.Username
		account.Username = &username
	}

	var created *domain.Account
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		c, err := s.accounts.Create(ctx, account)
		if err != nil {
			return err
		}
		for _, r := range roles {
			if err := s.assignments.Grant(ctx, c.ID, r.ID); err != nil {
				return fmt.Errorf("grant %s: %w", r.Name, err)
			}
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.AuthEvent{
		Kind:       domain.AuthEventRegistered,
		Identifier: created.Email,
		Subject:    created.Uniquifier,
		At:         s.now().UTC(),
	})
	s.log.Info().Str("account_id", created.ID).Int("roles", len(roles)).Msg("account registered")
	return created, nil
}

// Login verifies credentials, records login telemetry and starts a session.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	in.Identifier = strings.TrimSpace(in.Identifier)
	if in.Identifier == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	account, err := s.lookup(ctx, in.Identifier)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			s.loginFailed(in, "")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(in.Password)) != nil {
		s.loginFailed(in, account.Uniquifier)
		return nil, domain.ErrInvalidCredentials
	}
	if !account.Active {
		s.loginFailed(in, account.Uniquifier)
		return nil, domain.ErrInactiveAccount
	}

	now := s.now()
	domain.RecordLogin(account, now, in.RemoteAddr)
	if err := s.accounts.UpdateLoginTelemetry(ctx, account); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	token, session, err := s.sessions.Start(ctx, account)
	if err != nil {
		return nil, err
	}

	s.events.Publish(domain.AuthEvent{
		Kind:       domain.AuthEventLoginSucceeded,
		Identifier: in.Identifier,
		Subject:    account.Uniquifier,
		RemoteAddr: in.RemoteAddr,
		At:         now.UTC(),
	})
	return &ports.LoginResult{Token: token, Account: account, ExpiresAt: session.ExpiresAt}, nil
}

// Logout ends the session named by token.
func (s *AuthService) Logout(ctx context.Context, token, remoteAddr string) error {
	if err := s.sessions.End(ctx, token); err != nil {
		return err
	}
	s.events.Publish(domain.AuthEvent{
		Kind:       domain.AuthEventLogout,
		RemoteAddr: remoteAddr,
		At:         s.now().UTC(),
	})
	return nil
}

func (s *AuthService) lookup(ctx context.Context, identifier string) (*domain.Account, error) {
	if strings.Contains(identifier, "@") {
		return s.accounts.FindByEmail(ctx, strings.ToLower(identifier))
	}
	return s.accounts.FindByUsername(ctx, identifier)
}

func (s *AuthService) loginFailed(in ports.LoginInput, subject string) {
	s.events.Publish(domain.AuthEvent{
		Kind:       domain.AuthEventLoginFailed,
		Identifier: in.Identifier,
		Subject:    subject,
		RemoteAddr: in.RemoteAddr,
		At:         s.now().UTC(),
	})
}

// NewUniquifier returns a fresh external token for an account.
func NewUniquifier() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// redactPassword keeps the submitted password out of redisplayed input.
func redactPassword(err error, in ports.RegisterInput) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		in.Password = ""
		ve.Input = &in
	}
	return err
}

type discardEvents struct{}

func (discardEvents) Publish(domain.AuthEvent) {}
