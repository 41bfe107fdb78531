package authz

import "github.com/tenauth/tenauth/domain"

// Every decision here is a deterministic function of validated claims and
// the requested resource. No hidden state is consulted, so the full truth
// table is unit-testable.

// CanManageTenants reports whether the caller may create tenants and view
// cross-tenant data. Only super-admins can.
func CanManageTenants(claims *domain.SessionClaims) bool {
	return claims.SuperAdmin
}

// CanAdministerTenant reports whether the caller may manage the tenant's
// membership and view its member list.
func CanAdministerTenant(claims *domain.SessionClaims, tenant *domain.Tenant) bool {
	return claims.SuperAdmin || tenant.AdminID == claims.AccountID
}

// CanViewAccount reports whether the caller may read the target account's
// details and tenant list.
func CanViewAccount(claims *domain.SessionClaims, targetAccountID string) bool {
	return claims.SuperAdmin || claims.AccountID == targetAccountID
}
