package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tenauth/tenauth/domain"
)

const (
	// SessionTokenTTL is the lifetime of browser session tokens.
	SessionTokenTTL = 48 * time.Hour

	// MinAPITokenTTL and MaxAPITokenTTL bound caller-chosen API token
	// lifetimes to 1 through 30 days.
	MinAPITokenTTL = 24 * time.Hour
	MaxAPITokenTTL = 720 * time.Hour
)

var (
	ErrTokenExpired     = errors.New("token expired")
	ErrInvalidSignature = errors.New("token signature invalid")
	ErrTokenMalformed   = errors.New("token malformed")
	ErrTTLOutOfRange    = errors.New("token lifetime out of range")
)

// sessionClaims is the wire shape of a signed token. Identity and privilege
// ride inside the token itself; no session record is persisted anywhere.
type sessionClaims struct {
	Name       string `json:"name,omitempty"`
	Email      string `json:"email"`
	SuperAdmin bool   `json:"super_admin"`
	jwt.RegisteredClaims
}

// TokenService signs and verifies HMAC-SHA256 session tokens. Tokens are
// bearer credentials: verification needs only the shared secret, never a
// store lookup, so revocation before expiry is not possible.
type TokenService struct {
	secret []byte
	now    func() time.Time
}

func NewTokenService(secret []byte) *TokenService {
	return &TokenService{secret: secret, now: time.Now}
}

// Sign issues a token for the given identity with the given lifetime.
func (s *TokenService) Sign(account *domain.Account, ttl time.Duration) (string, error) {
	now := s.now()
	claims := sessionClaims{
		Name:       account.Name,
		Email:      account.Email,
		SuperAdmin: account.SuperAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// SignSession issues a standard 48 hour session token.
func (s *TokenService) SignSession(account *domain.Account) (string, error) {
	return s.Sign(account, SessionTokenTTL)
}

// SignAPIToken issues a long-lived token for programmatic access. The
// lifetime must fall within [MinAPITokenTTL, MaxAPITokenTTL].
func (s *TokenService) SignAPIToken(account *domain.Account, ttl time.Duration) (string, error) {
	if ttl < MinAPITokenTTL || ttl > MaxAPITokenTTL {
		return "", ErrTTLOutOfRange
	}
	return s.Sign(account, ttl)
}

// Verify checks the signature and expiry of a token and returns its claims.
// Expiry is reported ahead of signature problems so callers can distinguish
// a stale session from a forged one.
func (s *TokenService) Verify(tokenString string) (*domain.SessionClaims, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		// The library checks the signature before the claims, but expiry
		// outranks signature problems here: an expired token is reported
		// as expired even when its signature is also bad. Trusting the
		// unverified exp claim is safe, the token is rejected either way.
		if s.expiredUnverified(tokenString) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidSignature
	default:
		return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}

	return claimsFromToken(&claims), nil
}

// expiredUnverified reports whether the token's exp claim lies in the
// past, without checking the signature.
func (s *TokenService) expiredUnverified(tokenString string) bool {
	var claims sessionClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(s.now())
}

func claimsFromToken(claims *sessionClaims) *domain.SessionClaims {
	out := &domain.SessionClaims{
		AccountID:  claims.Subject,
		Name:       claims.Name,
		Email:      claims.Email,
		SuperAdmin: claims.SuperAdmin,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out
}
