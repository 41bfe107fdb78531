package services

import (
	"context"
	"errors"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
	"github.com/tenauth/tenauth/internal/authz"
)

// UserService exposes account reads gated by the authorization policy.
type UserService struct {
	accounts domain.AccountRepository
	tenants  domain.TenantRepository
}

func NewUserService(accounts domain.AccountRepository, tenants domain.TenantRepository) *UserService {
	return &UserService{accounts: accounts, tenants: tenants}
}

// GetCurrentAccount re-reads the caller's own record. The store, not the
// token, is the source of truth for profile fields.
func (s *UserService) GetCurrentAccount(ctx context.Context, claims *domain.SessionClaims) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.Unauthenticated("account no longer exists")
		}
		return nil, apperrors.Internal("failed to load account", err)
	}
	return account, nil
}

// GetAccount returns the target account. Callers may read themselves;
// reading anyone else takes super-admin.
func (s *UserService) GetAccount(ctx context.Context, claims *domain.SessionClaims, accountID string) (*domain.Account, error) {
	if !authz.CanViewAccount(claims, accountID) {
		return nil, apperrors.Forbidden("not allowed to view this account")
	}

	account, err := s.accounts.GetAccountByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NotFound("account not found")
		}
		return nil, apperrors.Internal("failed to load account", err)
	}
	return account, nil
}

// ListAccounts returns every account. Super-admin only.
func (s *UserService) ListAccounts(ctx context.Context, claims *domain.SessionClaims) ([]*domain.Account, error) {
	if !authz.CanManageTenants(claims) {
		return nil, apperrors.Forbidden("not allowed to list accounts")
	}

	accounts, err := s.accounts.ListAccounts(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to list accounts", err)
	}
	return accounts, nil
}

// ListAccountTenants returns the tenants the target account belongs to,
// under the same visibility rule as GetAccount.
func (s *UserService) ListAccountTenants(ctx context.Context, claims *domain.SessionClaims, accountID string) ([]*domain.Tenant, error) {
	if !authz.CanViewAccount(claims, accountID) {
		return nil, apperrors.Forbidden("not allowed to view this account")
	}

	if _, err := s.accounts.GetAccountByID(ctx, accountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NotFound("account not found")
		}
		return nil, apperrors.Internal("failed to load account", err)
	}

	tenants, err := s.tenants.ListTenantsByMember(ctx, accountID)
	if err != nil {
		return nil, apperrors.Internal("failed to list tenants", err)
	}
	return tenants, nil
}
