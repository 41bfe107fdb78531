package cache

import (
	"context"
	"errors"
	"time"
)

// LoginStateTTL bounds how long a federated login handshake may sit between
// the redirect to the provider and the callback.
const LoginStateTTL = 10 * time.Minute

// ErrStateNotFound is returned by Consume when the state token is unknown,
// expired, or was already consumed.
var ErrStateNotFound = errors.New("login state not found")

// LoginState is the server-side half of a federated login handshake. It is
// keyed by the anti-CSRF state token and holds the PKCE verifier, so the
// callback can prove it belongs to the handshake that started the redirect.
type LoginState struct {
	Provider     string `json:"provider"`
	CodeVerifier string `json:"code_verifier"`
	RedirectURL  string `json:"redirect_url"`
}

// LoginStateStore persists login states between the redirect and the
// callback. States are single-use: Consume removes the state atomically so
// a replayed callback cannot reuse it.
type LoginStateStore interface {
	Save(ctx context.Context, state string, ls *LoginState) error
	Consume(ctx context.Context, state string) (*LoginState, error)
	Close() error
}
