package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

// SeedAccount is a bootstrap account definition.
type SeedAccount struct {
	Username string
	Email    string
	Password string
	Roles    []string
}

// DefaultSeedRoles are created by the create-db command.
var DefaultSeedRoles = []domain.Role{
	{Name: domain.RoleAdmin, Description: "administrator"},
	{Name: domain.RoleUser, Description: "general user"},
}

// DefaultSeedAccounts are the demonstration accounts.
var DefaultSeedAccounts = []SeedAccount{
	{Username: "admin", Email: "admin@test.com", Password: "admin", Roles: []string{domain.RoleAdmin}},
	{Username: "user", Email: "user@test.com", Password: "user", Roles: []string{domain.RoleUser}},
	{Username: "user2", Email: "user2@test.com", Password: "user2", Roles: []string{domain.RoleAdmin, domain.RoleUser}},
}

// SeedService rebuilds the schema and loads the bootstrap data.
type SeedService struct {
	schema      ports.SchemaManager
	tx          ports.Transactor
	accounts    ports.AccountRepository
	roles       ports.RoleRepository
	assignments ports.RoleAssignmentRepository
	log         zerolog.Logger
}

func NewSeedService(
	schema ports.SchemaManager,
	tx ports.Transactor,
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	assignments ports.RoleAssignmentRepository,
	log zerolog.Logger,
) *SeedService {
	return &SeedService{schema: schema, tx: tx, accounts: accounts, roles: roles, assignments: assignments, log: log}
}

// Run drops and recreates the schema, then seeds roles and accounts in one
// unit of work. Seed accounts bypass registration rules and start with zeroed
// login telemetry.
func (s *SeedService) Run(ctx context.Context, roles []domain.Role, accounts []SeedAccount) error {
	if err := s.schema.Reset(ctx); err != nil {
		return fmt.Errorf("reset schema: %w", err)
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		byName := make(map[string]*domain.Role, len(roles))
		for i := range roles {
			r := roles[i]
			created, err := s.roles.Create(ctx, &r)
			if err != nil {
				return fmt.Errorf("create role %s: %w", r.Name, err)
			}
			byName[created.Name] = created
			s.log.Info().Str("role", created.Name).Msg("role seeded")
		}

		for _, sa := range accounts {
			hash, err := bcrypt.GenerateFromPassword([]byte(sa.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			account := &domain.Account{
				Email:        sa.Email,
				PasswordHash: string(hash),
				Active:       true,
				Uniquifier:   NewUniquifier(),
				CreatedAt:    time.Now().UTC(),
			}
			if sa.Username != "" {
				username := sa.Username
				account.Username = &username
			}
			created, err := s.accounts.Create(ctx, account)
			if err != nil {
				return fmt.Errorf("create account %s: %w", sa.Email, err)
			}
			for _, name := range sa.Roles {
				role, ok := byName[name]
				if !ok {
					return fmt.Errorf("seed account %s: %w: %s", sa.Email, domain.ErrRoleNotFound, name)
				}
				if err := s.assignments.Grant(ctx, created.ID, role.ID); err != nil {
					return fmt.Errorf("grant %s to %s: %w", name, sa.Email, err)
				}
			}
			s.log.Info().Str("email", sa.Email).Strs("roles", sa.Roles).Msg("account seeded")
		}
		return nil
	})
}
