package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/tenauth/tenauth/cache"
	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
	"github.com/tenauth/tenauth/internal/federation"
)

// FederationService drives the two halves of a federated login: the
// redirect to the provider and the callback that finishes with a local
// account.
type FederationService struct {
	providers map[string]federation.OAuth2Provider
	states    cache.LoginStateStore
	resolver  *AccountResolver
	tokens    *TokenService
}

func NewFederationService(states cache.LoginStateStore, resolver *AccountResolver, tokens *TokenService, providers ...federation.OAuth2Provider) *FederationService {
	byName := make(map[string]federation.OAuth2Provider, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &FederationService{providers: byName, states: states, resolver: resolver, tokens: tokens}
}

func (s *FederationService) provider(name string) (federation.OAuth2Provider, error) {
	provider, ok := s.providers[name]
	if !ok {
		return nil, &apperrors.Error{
			Kind:    apperrors.KindNotFound,
			Message: "unknown identity provider",
			Err:     federation.ErrProviderNotFound,
		}
	}
	return provider, nil
}

// Start begins a handshake with the named provider and returns the
// authorization URL to redirect the browser to. The anti-CSRF state and the
// PKCE verifier are persisted server-side so the callback can check them
// even when it lands on another instance.
func (s *FederationService) Start(ctx context.Context, providerName, redirectURL string) (string, error) {
	provider, err := s.provider(providerName)
	if err != nil {
		return "", err
	}

	state, err := federation.NewState()
	if err != nil {
		return "", apperrors.Internal("failed to start login", err)
	}
	verifier, err := federation.NewCodeVerifier()
	if err != nil {
		return "", apperrors.Internal("failed to start login", err)
	}

	ls := &cache.LoginState{
		Provider:     providerName,
		CodeVerifier: verifier,
		RedirectURL:  redirectURL,
	}
	if err := s.states.Save(ctx, state, ls); err != nil {
		return "", apperrors.Internal("failed to start login", err)
	}

	authURL := provider.AuthCodeURL(state, redirectURL,
		oauth2.SetAuthURLParam("code_challenge", federation.ChallengeS256(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
	return authURL, nil
}

// Callback finishes a handshake. It consumes the state, exchanges the code
// with the PKCE verifier bound to that state, fetches the external
// identity, resolves the local account, and issues a session token.
func (s *FederationService) Callback(ctx context.Context, providerName, state, code string) (string, *domain.Account, error) {
	provider, err := s.provider(providerName)
	if err != nil {
		return "", nil, err
	}

	ls, err := s.states.Consume(ctx, state)
	if err != nil {
		if errors.Is(err, cache.ErrStateNotFound) {
			return "", nil, apperrors.Unauthenticated("login session expired or invalid")
		}
		return "", nil, apperrors.Internal("failed to complete login", err)
	}
	// A state minted for one provider must not finish another provider's
	// handshake.
	if ls.Provider != providerName {
		return "", nil, apperrors.Unauthenticated("login session expired or invalid")
	}

	token, err := provider.ExchangeCode(ctx, ls.RedirectURL, code,
		oauth2.SetAuthURLParam("code_verifier", ls.CodeVerifier),
	)
	if err != nil {
		log.Warn().Err(err).Str("provider", providerName).Msg("authorization code exchange failed")
		return "", nil, apperrors.Upstream("identity provider rejected the login", err)
	}

	identity, err := provider.FetchIdentity(ctx, token)
	if err != nil {
		if errors.Is(err, federation.ErrNoVerifiedPrimaryEmail) {
			return "", nil, apperrors.Unauthenticated("provider account has no verified primary email")
		}
		log.Warn().Err(err).Str("provider", providerName).Msg("fetching provider identity failed")
		return "", nil, apperrors.Upstream("could not fetch identity from provider", err)
	}

	account, err := s.resolver.Resolve(ctx, identity, token.AccessToken)
	if err != nil {
		return "", nil, err
	}

	session, err := s.tokens.SignSession(account)
	if err != nil {
		return "", nil, apperrors.Internal("failed to complete login", err)
	}
	return session, account, nil
}
