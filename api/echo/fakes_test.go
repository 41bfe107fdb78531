package echo

import (
	"context"
	"strings"
	"sync"

	"github.com/tenauth/tenauth/domain"
)

// memAccountRepo is a minimal in-memory domain.AccountRepository for
// handler tests.
type memAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{accounts: map[string]*domain.Account{}}
}

func (r *memAccountRepo) CreateAccount(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, account.Email) {
			return domain.ErrDuplicate
		}
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) GetAccountByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.accounts[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memAccountRepo) GetAccountByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.accounts {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memAccountRepo) GetAccountsByIDs(_ context.Context, ids []string) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Account
	for _, id := range ids {
		if a, ok := r.accounts[id]; ok {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memAccountRepo) UpdateAccount(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; !ok {
		return domain.ErrNotFound
	}
	r.accounts[account.ID] = account
	return nil
}

func (r *memAccountRepo) ListAccounts(_ context.Context) ([]*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, a)
	}
	return out, nil
}

func (r *memAccountRepo) CountAccounts(_ context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.accounts)), nil
}

// memLinkRepo is a minimal in-memory domain.ProviderLinkRepository.
type memLinkRepo struct {
	mu    sync.Mutex
	links map[string]*domain.ProviderLink
}

func newMemLinkRepo() *memLinkRepo {
	return &memLinkRepo{links: map[string]*domain.ProviderLink{}}
}

func linkKey(provider, providerUserID string) string {
	return provider + "/" + providerUserID
}

func (r *memLinkRepo) CreateLink(_ context.Context, link *domain.ProviderLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := linkKey(link.Provider, link.ProviderUserID)
	if _, ok := r.links[key]; ok {
		return domain.ErrDuplicate
	}
	r.links[key] = link
	return nil
}

func (r *memLinkRepo) GetLink(_ context.Context, provider, providerUserID string) (*domain.ProviderLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link, ok := r.links[linkKey(provider, providerUserID)]; ok {
		return link, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memLinkRepo) UpdateAccessToken(_ context.Context, linkID, accessToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, link := range r.links {
		if link.ID == linkID {
			link.AccessToken = accessToken
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memLinkRepo) ListLinksByAccountID(_ context.Context, accountID string) ([]*domain.ProviderLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.ProviderLink
	for _, link := range r.links {
		if link.AccountID == accountID {
			out = append(out, link)
		}
	}
	return out, nil
}

// memTenantRepo is a minimal in-memory domain.TenantRepository.
type memTenantRepo struct {
	mu      sync.Mutex
	tenants map[string]*domain.Tenant
}

func newMemTenantRepo() *memTenantRepo {
	return &memTenantRepo{tenants: map[string]*domain.Tenant{}}
}

func (r *memTenantRepo) CreateTenant(_ context.Context, tenant *domain.Tenant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tenants {
		if t.Name == tenant.Name {
			return domain.ErrDuplicate
		}
	}
	r.tenants[tenant.ID] = tenant
	return nil
}

func (r *memTenantRepo) GetTenantByID(_ context.Context, id string) (*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.tenants[id]; ok {
		return t, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memTenantRepo) AddMember(_ context.Context, tenantID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return domain.ErrNotFound
	}
	if t.HasMember(accountID) {
		return domain.ErrDuplicate
	}
	t.MemberIDs = append(t.MemberIDs, accountID)
	return nil
}

func (r *memTenantRepo) RemoveMember(_ context.Context, tenantID, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tenants[tenantID]
	if !ok {
		return domain.ErrNotFound
	}
	for i, id := range t.MemberIDs {
		if id == accountID {
			t.MemberIDs = append(t.MemberIDs[:i], t.MemberIDs[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *memTenantRepo) ListTenantsByMember(_ context.Context, accountID string) ([]*domain.Tenant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Tenant
	for _, t := range r.tenants {
		if t.HasMember(accountID) {
			out = append(out, t)
		}
	}
	return out, nil
}
