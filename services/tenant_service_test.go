package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
)

var (
	superAdminClaims  = &domain.SessionClaims{AccountID: "root", SuperAdmin: true}
	tenantAdminClaims = &domain.SessionClaims{AccountID: "admin-1"}
	memberClaims      = &domain.SessionClaims{AccountID: "member-1"}
	outsiderClaims    = &domain.SessionClaims{AccountID: "outsider"}
)

func acmeTenant() *domain.Tenant {
	return &domain.Tenant{
		ID:        "ten-1",
		Name:      "acme",
		AdminID:   "admin-1",
		MemberIDs: []string{"admin-1", "member-1"},
	}
}

func TestCreateTenantRequiresSuperAdmin(t *testing.T) {
	svc := NewTenantService(&mockTenantRepo{}, &mockAccountRepo{})

	_, err := svc.CreateTenant(context.Background(), tenantAdminClaims, "acme", "admin@example.com")
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestCreateTenantResolvesAdminByEmail(t *testing.T) {
	tenants := &mockTenantRepo{}
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "admin@example.com").
		Return(&domain.Account{ID: "admin-1", Email: "admin@example.com"}, nil)
	tenants.On("CreateTenant", mock.Anything, mock.MatchedBy(func(tn *domain.Tenant) bool {
		return tn.Name == "acme" && tn.AdminID == "admin-1" && tn.HasMember("admin-1")
	})).Return(nil)

	svc := NewTenantService(tenants, accounts)
	tenant, err := svc.CreateTenant(context.Background(), superAdminClaims, " acme ", "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, "acme", tenant.Name)
	tenants.AssertExpectations(t)
}

func TestCreateTenantDuplicateName(t *testing.T) {
	tenants := &mockTenantRepo{}
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, mock.Anything).
		Return(&domain.Account{ID: "admin-1"}, nil)
	tenants.On("CreateTenant", mock.Anything, mock.Anything).Return(domain.ErrDuplicate)

	svc := NewTenantService(tenants, accounts)
	_, err := svc.CreateTenant(context.Background(), superAdminClaims, "acme", "admin@example.com")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestCreateTenantUnknownAdminEmail(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	svc := NewTenantService(&mockTenantRepo{}, accounts)
	_, err := svc.CreateTenant(context.Background(), superAdminClaims, "acme", "ghost@example.com")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestGetTenantVisibility(t *testing.T) {
	cases := []struct {
		name    string
		claims  *domain.SessionClaims
		allowed bool
	}{
		{"super admin", superAdminClaims, true},
		{"tenant admin", tenantAdminClaims, true},
		{"member", memberClaims, true},
		{"outsider", outsiderClaims, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tenants := &mockTenantRepo{}
			tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)

			svc := NewTenantService(tenants, &mockAccountRepo{})
			tenant, err := svc.GetTenant(context.Background(), tc.claims, "ten-1")
			if tc.allowed {
				require.NoError(t, err)
				assert.Equal(t, "ten-1", tenant.ID)
			} else {
				assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
			}
		})
	}
}

func TestAddMemberChecksAccountBeforeTenant(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	tenants := &mockTenantRepo{}
	svc := NewTenantService(tenants, accounts)

	err := svc.AddMember(context.Background(), tenantAdminClaims, "ten-1", "ghost@example.com")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	tenants.AssertNotCalled(t, "GetTenantByID", mock.Anything, mock.Anything)
}

func TestAddMember(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "new@example.com").
		Return(&domain.Account{ID: "new-member", Email: "new@example.com"}, nil)
	tenants := &mockTenantRepo{}
	tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)
	tenants.On("AddMember", mock.Anything, "ten-1", "new-member").Return(nil)

	svc := NewTenantService(tenants, accounts)
	require.NoError(t, svc.AddMember(context.Background(), tenantAdminClaims, "ten-1", "new@example.com"))
	tenants.AssertExpectations(t)
}

func TestAddMemberForbiddenForNonAdmin(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, mock.Anything).
		Return(&domain.Account{ID: "new-member"}, nil)
	tenants := &mockTenantRepo{}
	tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)

	svc := NewTenantService(tenants, accounts)
	err := svc.AddMember(context.Background(), memberClaims, "ten-1", "new@example.com")
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}

func TestAddMemberAlreadyMember(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, mock.Anything).
		Return(&domain.Account{ID: "member-1", Email: "member@example.com"}, nil)
	tenants := &mockTenantRepo{}
	tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)
	tenants.On("AddMember", mock.Anything, "ten-1", "member-1").Return(domain.ErrDuplicate)

	svc := NewTenantService(tenants, accounts)
	err := svc.AddMember(context.Background(), tenantAdminClaims, "ten-1", "member@example.com")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestRemoveMember(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "member@example.com").
		Return(&domain.Account{ID: "member-1", Email: "member@example.com"}, nil)
	tenants := &mockTenantRepo{}
	tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)
	tenants.On("RemoveMember", mock.Anything, "ten-1", "member-1").Return(nil)

	svc := NewTenantService(tenants, accounts)
	require.NoError(t, svc.RemoveMember(context.Background(), tenantAdminClaims, "ten-1", "member@example.com"))
}

func TestRemoveMemberCannotRemoveAdmin(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "admin@example.com").
		Return(&domain.Account{ID: "admin-1", Email: "admin@example.com"}, nil)
	tenants := &mockTenantRepo{}
	tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)

	svc := NewTenantService(tenants, accounts)
	err := svc.RemoveMember(context.Background(), superAdminClaims, "ten-1", "admin@example.com")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	tenants.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestRemoveMemberNotAMember(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "outsider@example.com").
		Return(&domain.Account{ID: "outsider", Email: "outsider@example.com"}, nil)
	tenants := &mockTenantRepo{}
	tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)
	tenants.On("RemoveMember", mock.Anything, "ten-1", "outsider").Return(domain.ErrNotFound)

	svc := NewTenantService(tenants, accounts)
	err := svc.RemoveMember(context.Background(), tenantAdminClaims, "ten-1", "outsider@example.com")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestRemoveMemberUnknownEmail(t *testing.T) {
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

	tenants := &mockTenantRepo{}
	svc := NewTenantService(tenants, accounts)

	err := svc.RemoveMember(context.Background(), tenantAdminClaims, "ten-1", "ghost@example.com")
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	tenants.AssertNotCalled(t, "GetTenantByID", mock.Anything, mock.Anything)
}

func TestListMembers(t *testing.T) {
	tenants := &mockTenantRepo{}
	tenants.On("GetTenantByID", mock.Anything, "ten-1").Return(acmeTenant(), nil)
	accounts := &mockAccountRepo{}
	accounts.On("GetAccountsByIDs", mock.Anything, []string{"admin-1", "member-1"}).Return([]*domain.Account{
		{ID: "admin-1"},
		{ID: "member-1"},
	}, nil)

	svc := NewTenantService(tenants, accounts)
	members, err := svc.ListMembers(context.Background(), tenantAdminClaims, "ten-1")
	require.NoError(t, err)
	assert.Len(t, members, 2)

	_, err = svc.ListMembers(context.Background(), memberClaims, "ten-1")
	assert.Equal(t, apperrors.KindForbidden, apperrors.KindOf(err))
}
