package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
	"github.com/tenauth/tenauth/internal/authz"
)

// TenantService implements tenant lifecycle and membership management.
type TenantService struct {
	tenants  domain.TenantRepository
	accounts domain.AccountRepository
}

func NewTenantService(tenants domain.TenantRepository, accounts domain.AccountRepository) *TenantService {
	return &TenantService{tenants: tenants, accounts: accounts}
}

// CreateTenant creates a tenant administered by the account behind
// adminEmail. Super-admin only. The admin is a member from the start;
// names are unique across the system.
func (s *TenantService) CreateTenant(ctx context.Context, claims *domain.SessionClaims, name, adminEmail string) (*domain.Tenant, error) {
	if !authz.CanManageTenants(claims) {
		return nil, apperrors.Forbidden("not allowed to create tenants")
	}

	name = strings.TrimSpace(name)
	if name == "" || adminEmail == "" {
		return nil, apperrors.Validation("tenant name and admin email are required")
	}

	admin, err := s.accounts.GetAccountByEmail(ctx, adminEmail)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NotFound("admin account not found")
		}
		return nil, apperrors.Internal("failed to create tenant", err)
	}

	now := time.Now()
	tenant := &domain.Tenant{
		ID:        uuid.NewString(),
		Name:      name,
		AdminID:   admin.ID,
		MemberIDs: []string{admin.ID},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tenants.CreateTenant(ctx, tenant); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperrors.Conflict("a tenant with this name already exists")
		}
		return nil, apperrors.Internal("failed to create tenant", err)
	}

	log.Info().
		Str("tenant_id", tenant.ID).
		Str("admin_id", admin.ID).
		Msg("tenant created")

	return tenant, nil
}

// GetTenant returns the tenant for super-admins, its admin, and its
// members.
func (s *TenantService) GetTenant(ctx context.Context, claims *domain.SessionClaims, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAdministerTenant(claims, tenant) && !tenant.HasMember(claims.AccountID) {
		return nil, apperrors.Forbidden("not allowed to view this tenant")
	}
	return tenant, nil
}

// AddMember adds the account behind email to the tenant. The account is
// resolved before any tenant checks run, so an unknown email is a 404
// regardless of the caller's standing. The account must not already be a
// member.
func (s *TenantService) AddMember(ctx context.Context, claims *domain.SessionClaims, tenantID, email string) error {
	account, err := s.accountByEmail(ctx, email)
	if err != nil {
		return err
	}

	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !authz.CanAdministerTenant(claims, tenant) {
		return apperrors.Forbidden("not allowed to manage this tenant")
	}

	if err := s.tenants.AddMember(ctx, tenantID, account.ID); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return apperrors.Conflict("account is already a member of this tenant")
		}
		return apperrors.Internal("failed to add member", err)
	}

	log.Info().
		Str("tenant_id", tenantID).
		Str("account_id", account.ID).
		Msg("member added to tenant")

	return nil
}

// RemoveMember removes the account behind email from the tenant. The
// tenant admin cannot be removed from their own tenant.
func (s *TenantService) RemoveMember(ctx context.Context, claims *domain.SessionClaims, tenantID, email string) error {
	account, err := s.accountByEmail(ctx, email)
	if err != nil {
		return err
	}

	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	if !authz.CanAdministerTenant(claims, tenant) {
		return apperrors.Forbidden("not allowed to manage this tenant")
	}
	if tenant.AdminID == account.ID {
		return apperrors.Validation("tenant admin cannot be removed from the tenant")
	}

	if err := s.tenants.RemoveMember(ctx, tenantID, account.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.NotFound("account is not a member of this tenant")
		}
		return apperrors.Internal("failed to remove member", err)
	}

	log.Info().
		Str("tenant_id", tenantID).
		Str("account_id", account.ID).
		Msg("member removed from tenant")

	return nil
}

func (s *TenantService) accountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NotFound("account not found")
		}
		return nil, apperrors.Internal("failed to resolve account", err)
	}
	return account, nil
}

// ListMembers returns the member accounts of the tenant. Requires the
// caller to administer the tenant.
func (s *TenantService) ListMembers(ctx context.Context, claims *domain.SessionClaims, tenantID string) ([]*domain.Account, error) {
	tenant, err := s.getTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if !authz.CanAdministerTenant(claims, tenant) {
		return nil, apperrors.Forbidden("not allowed to view this tenant's members")
	}

	members, err := s.accounts.GetAccountsByIDs(ctx, tenant.MemberIDs)
	if err != nil {
		return nil, apperrors.Internal("failed to list members", err)
	}
	return members, nil
}

func (s *TenantService) getTenant(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, err := s.tenants.GetTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperrors.NotFound("tenant not found")
		}
		return nil, apperrors.Internal("failed to load tenant", err)
	}
	return tenant, nil
}
