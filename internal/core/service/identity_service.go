package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookshelf/secureapp/internal/core/domain"
	"github.com/bookshelf/secureapp/internal/core/ports"
)

// IdentityService implements the identity and role store on top of the
// account, role and assignment repositories.
type IdentityService struct {
	accounts    ports.AccountRepository
	roles       ports.RoleRepository
	assignments ports.RoleAssignmentRepository
	log         zerolog.Logger
}

func NewIdentityService(
	accounts ports.AccountRepository,
	roles ports.RoleRepository,
	assignments ports.RoleAssignmentRepository,
	log zerolog.Logger,
) *IdentityService {
	return &IdentityService{accounts: accounts, roles: roles, assignments: assignments, log: log}
}

// FindAccount resolves a session subject to its account.
func (s *IdentityService) FindAccount(ctx context.Context, subject string) (*domain.Account, error) {
	if subject == "" {
		return nil, domain.ErrAccountNotFound
	}
	return s.accounts.FindByUniquifier(ctx, subject)
}

func (s *IdentityService) FindAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

// RolesOf re-derives the account's role names from the join relation.
func (s *IdentityService) RolesOf(ctx context.Context, account *domain.Account) (domain.RoleSet, error) {
	assigned, err := s.assignments.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("roles of %s: %w", account.ID, err)
	}
	if len(assigned) == 0 {
		return domain.RoleSet{}, nil
	}

	ids := make([]string, 0, len(assigned))
	for _, a := range assigned {
		ids = append(ids, a.RoleID)
	}
	roles, err := s.roles.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("roles of %s: %w", account.ID, err)
	}

	set := make(domain.RoleSet, len(roles))
	for _, r := range roles {
		set[r.Name] = struct{}{}
	}
	return set, nil
}

// GrantRole adds roleName to the account. Granting a held role is a no-op.
func (s *IdentityService) GrantRole(ctx context.Context, accountID, roleName string) error {
	account, role, err := s.resolvePair(ctx, accountID, roleName)
	if err != nil {
		return err
	}
	if err := s.assignments.Grant(ctx, account.ID, role.ID); err != nil {
		return fmt.Errorf("grant %s to %s: %w", role.Name, account.ID, err)
	}
	s.log.Info().Str("account_id", account.ID).Str("role", role.Name).Msg("role granted")
	return nil
}

// RevokeRole removes roleName from the account. Revoking an unheld role is a no-op.
func (s *IdentityService) RevokeRole(ctx context.Context, accountID, roleName string) error {
	account, role, err := s.resolvePair(ctx, accountID, roleName)
	if err != nil {
		return err
	}
	if err := s.assignments.Revoke(ctx, account.ID, role.ID); err != nil {
		return fmt.Errorf("revoke %s from %s: %w", role.Name, account.ID, err)
	}
	s.log.Info().Str("account_id", account.ID).Str("role", role.Name).Msg("role revoked")
	return nil
}

func (s *IdentityService) resolvePair(ctx context.Context, accountID, roleName string) (*domain.Account, *domain.Role, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, nil, err
	}
	role, err := s.roles.FindByName(ctx, roleName)
	if err != nil {
		return nil, nil, err
	}
	return account, role, nil
}
