package services

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"

	"github.com/tenauth/tenauth/domain"
	"github.com/tenauth/tenauth/internal/federation"
)

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) CreateAccount(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) GetAccountByID(ctx context.Context, id string) (*domain.Account, error) {
	args := m.Called(ctx, id)
	if acc, ok := args.Get(0).(*domain.Account); ok {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) GetAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if acc, ok := args.Get(0).(*domain.Account); ok {
		return acc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) GetAccountsByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	args := m.Called(ctx, ids)
	if accs, ok := args.Get(0).([]*domain.Account); ok {
		return accs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) UpdateAccount(ctx context.Context, account *domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepo) ListAccounts(ctx context.Context) ([]*domain.Account, error) {
	args := m.Called(ctx)
	if accs, ok := args.Get(0).([]*domain.Account); ok {
		return accs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAccountRepo) CountAccounts(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockLinkRepo struct {
	mock.Mock
}

func (m *mockLinkRepo) CreateLink(ctx context.Context, link *domain.ProviderLink) error {
	return m.Called(ctx, link).Error(0)
}

func (m *mockLinkRepo) GetLink(ctx context.Context, provider, providerUserID string) (*domain.ProviderLink, error) {
	args := m.Called(ctx, provider, providerUserID)
	if link, ok := args.Get(0).(*domain.ProviderLink); ok {
		return link, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockLinkRepo) UpdateAccessToken(ctx context.Context, linkID, accessToken string) error {
	return m.Called(ctx, linkID, accessToken).Error(0)
}

func (m *mockLinkRepo) ListLinksByAccountID(ctx context.Context, accountID string) ([]*domain.ProviderLink, error) {
	args := m.Called(ctx, accountID)
	if links, ok := args.Get(0).([]*domain.ProviderLink); ok {
		return links, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockTenantRepo struct {
	mock.Mock
}

func (m *mockTenantRepo) CreateTenant(ctx context.Context, tenant *domain.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *mockTenantRepo) GetTenantByID(ctx context.Context, id string) (*domain.Tenant, error) {
	args := m.Called(ctx, id)
	if tenant, ok := args.Get(0).(*domain.Tenant); ok {
		return tenant, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockTenantRepo) AddMember(ctx context.Context, tenantID, accountID string) error {
	return m.Called(ctx, tenantID, accountID).Error(0)
}

func (m *mockTenantRepo) RemoveMember(ctx context.Context, tenantID, accountID string) error {
	return m.Called(ctx, tenantID, accountID).Error(0)
}

func (m *mockTenantRepo) ListTenantsByMember(ctx context.Context, accountID string) ([]*domain.Tenant, error) {
	args := m.Called(ctx, accountID)
	if tenants, ok := args.Get(0).([]*domain.Tenant); ok {
		return tenants, args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeProvider is a canned OAuth2Provider for handshake tests.
type fakeProvider struct {
	name         string
	identity     *federation.ExternalIdentity
	exchangeErr  error
	identityErr  error
	lastVerifier string
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) AuthCodeURL(state, redirectURL string, opts ...oauth2.AuthCodeOption) string {
	return "https://provider.example/authorize?state=" + state
}

func (f *fakeProvider) ExchangeCode(ctx context.Context, redirectURL, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error) {
	f.lastVerifier = authCodeOptionValues(opts).Get("code_verifier")
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	return &oauth2.Token{AccessToken: "provider-access-token"}, nil
}

func (f *fakeProvider) FetchIdentity(ctx context.Context, token *oauth2.Token) (*federation.ExternalIdentity, error) {
	if f.identityErr != nil {
		return nil, f.identityErr
	}
	return f.identity, nil
}

// authCodeOptionValues renders opts through a throwaway auth URL and reads
// the resulting query parameters back.
func authCodeOptionValues(opts []oauth2.AuthCodeOption) url.Values {
	conf := &oauth2.Config{Endpoint: oauth2.Endpoint{AuthURL: "https://unused.example/auth"}}
	u, err := url.Parse(conf.AuthCodeURL("", opts...))
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}
