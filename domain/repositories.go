package domain

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by repositories when the requested record
	// does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a unique constraint (account email,
	// tenant name, provider identity, tenant membership) is violated.
	ErrDuplicate = errors.New("record already exists")
)

// AccountRepository provides access to account records. Email lookups are
// case-insensitive. CreateAccount reports ErrDuplicate on an email collision;
// concurrent registrations with the same email resolve to exactly one
// success through the store's unique constraint.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account *Account) error
	GetAccountByID(ctx context.Context, id string) (*Account, error)
	GetAccountByEmail(ctx context.Context, email string) (*Account, error)
	GetAccountsByIDs(ctx context.Context, ids []string) ([]*Account, error)
	UpdateAccount(ctx context.Context, account *Account) error
	ListAccounts(ctx context.Context) ([]*Account, error)
	CountAccounts(ctx context.Context) (int64, error)
}

// ProviderLinkRepository provides access to provider links. CreateLink
// reports ErrDuplicate when the (provider, providerUserID) pair is already
// linked.
type ProviderLinkRepository interface {
	CreateLink(ctx context.Context, link *ProviderLink) error
	GetLink(ctx context.Context, provider, providerUserID string) (*ProviderLink, error)
	UpdateAccessToken(ctx context.Context, linkID, accessToken string) error
	ListLinksByAccountID(ctx context.Context, accountID string) ([]*ProviderLink, error)
}

// TenantRepository provides access to tenants and their memberships.
// AddMember reports ErrDuplicate when the account is already a member and
// RemoveMember reports ErrNotFound when it is not.
type TenantRepository interface {
	CreateTenant(ctx context.Context, tenant *Tenant) error
	GetTenantByID(ctx context.Context, id string) (*Tenant, error)
	AddMember(ctx context.Context, tenantID, accountID string) error
	RemoveMember(ctx context.Context, tenantID, accountID string) error
	ListTenantsByMember(ctx context.Context, accountID string) ([]*Tenant, error)
}
