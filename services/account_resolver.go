package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
	"github.com/tenauth/tenauth/internal/federation"
)

// AccountResolver maps a fetched external identity onto a local account,
// creating the account or the provider link as needed.
type AccountResolver struct {
	accounts domain.AccountRepository
	links    domain.ProviderLinkRepository
}

func NewAccountResolver(accounts domain.AccountRepository, links domain.ProviderLinkRepository) *AccountResolver {
	return &AccountResolver{accounts: accounts, links: links}
}

// Resolve returns the local account for an external identity.
//
// Resolution order: an existing provider link wins; otherwise an account
// with the same email is silently linked; otherwise a fresh passwordless
// account is created. The provider attests the email is verified, which is
// what makes the silent link safe.
//
// Races between concurrent callbacks for the same identity are resolved by
// the store's unique constraints: a duplicate on insert means the other
// callback won, so the loser re-reads and continues on the winner's rows.
func (r *AccountResolver) Resolve(ctx context.Context, identity *federation.ExternalIdentity, accessToken string) (*domain.Account, error) {
	link, err := r.links.GetLink(ctx, identity.Provider, identity.ProviderUserID)
	switch {
	case err == nil:
		return r.accountForLink(ctx, link, accessToken)
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, apperrors.Internal("failed to resolve identity", err)
	}

	account, err := r.findOrCreateAccount(ctx, identity)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newLink := &domain.ProviderLink{
		ID:             uuid.NewString(),
		AccountID:      account.ID,
		Provider:       identity.Provider,
		ProviderUserID: identity.ProviderUserID,
		AccessToken:    accessToken,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := r.links.CreateLink(ctx, newLink); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			link, err := r.links.GetLink(ctx, identity.Provider, identity.ProviderUserID)
			if err != nil {
				return nil, apperrors.Internal("failed to resolve identity", err)
			}
			return r.accountForLink(ctx, link, accessToken)
		}
		return nil, apperrors.Internal("failed to resolve identity", err)
	}

	log.Info().
		Str("account_id", account.ID).
		Str("provider", identity.Provider).
		Msg("provider identity linked")

	return account, nil
}

func (r *AccountResolver) accountForLink(ctx context.Context, link *domain.ProviderLink, accessToken string) (*domain.Account, error) {
	if err := r.links.UpdateAccessToken(ctx, link.ID, accessToken); err != nil {
		// The login still succeeds on a stale stored token.
		log.Warn().Err(err).Str("link_id", link.ID).Msg("failed to refresh provider access token")
	}

	account, err := r.accounts.GetAccountByID(ctx, link.AccountID)
	if err != nil {
		return nil, apperrors.Internal("failed to resolve identity", err)
	}
	return account, nil
}

func (r *AccountResolver) findOrCreateAccount(ctx context.Context, identity *federation.ExternalIdentity) (*domain.Account, error) {
	account, err := r.accounts.GetAccountByEmail(ctx, identity.Email)
	switch {
	case err == nil:
		return account, nil
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, apperrors.Internal("failed to resolve identity", err)
	}

	// Accounts created from a provider identity are never super-admins.
	// The bootstrap slot belongs to the first locally registered account,
	// a stranger's OAuth login must not claim it.
	now := time.Now()
	account = &domain.Account{
		ID:        uuid.NewString(),
		Email:     identity.Email,
		Name:      identity.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			// Lost a registration race on the email. Use the winner.
			account, err = r.accounts.GetAccountByEmail(ctx, identity.Email)
			if err != nil {
				return nil, apperrors.Internal("failed to resolve identity", err)
			}
			return account, nil
		}
		return nil, apperrors.Internal("failed to resolve identity", err)
	}

	log.Info().
		Str("account_id", account.ID).
		Str("provider", identity.Provider).
		Msg("account created from provider identity")

	return account, nil
}
