package federation

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// ProviderTimeout bounds every outbound call to an identity provider. A
// hanging provider must not hold a login request open indefinitely.
const ProviderTimeout = 10 * time.Second

// ExternalIdentity is the provider-agnostic identity extracted from a
// provider's user-info APIs. Email is always verified by the provider;
// identities without a verified primary email are rejected before this
// struct is built.
type ExternalIdentity struct {
	Provider       string
	ProviderUserID string
	Email          string
	Name           string
	Username       string
	PictureURL     string
}

// OAuth2Provider abstracts one external identity provider. Implementations
// hold the client credentials and know the provider's endpoints and
// user-info quirks.
type OAuth2Provider interface {
	// Name returns the provider key used in routes and provider links,
	// e.g. "github".
	Name() string

	// AuthCodeURL builds the authorization URL the browser is redirected
	// to. state is the anti-CSRF token; opts carry the PKCE challenge.
	AuthCodeURL(state, redirectURL string, opts ...oauth2.AuthCodeOption) string

	// ExchangeCode swaps an authorization code for a token. opts carry the
	// PKCE verifier matching the challenge sent in AuthCodeURL.
	ExchangeCode(ctx context.Context, redirectURL, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)

	// FetchIdentity retrieves the external identity behind the token. It
	// returns ErrNoVerifiedPrimaryEmail when the provider cannot attest a
	// verified primary email address.
	FetchIdentity(ctx context.Context, token *oauth2.Token) (*ExternalIdentity, error)
}

// httpClient returns a client authenticated with token and bounded by
// ProviderTimeout.
func httpClient(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) *http.Client {
	client := conf.Client(ctx, token)
	client.Timeout = ProviderTimeout
	return client
}
