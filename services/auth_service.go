package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/tenauth/tenauth/domain"
	apperrors "github.com/tenauth/tenauth/errors"
	"github.com/tenauth/tenauth/internal/password"
)

// AuthService implements password registration, password login, and API
// token minting.
type AuthService struct {
	accounts domain.AccountRepository
	hasher   password.Hasher
	tokens   *TokenService
}

func NewAuthService(accounts domain.AccountRepository, hasher password.Hasher, tokens *TokenService) *AuthService {
	return &AuthService{accounts: accounts, hasher: hasher, tokens: tokens}
}

// Register creates a password account. The very first account in the system
// becomes super-admin; every later one starts as a plain member.
func (s *AuthService) Register(ctx context.Context, email, name, plaintext string) (*domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || plaintext == "" {
		return nil, apperrors.Validation("email and password are required")
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return nil, apperrors.Internal("failed to process password", err)
	}

	count, err := s.accounts.CountAccounts(ctx)
	if err != nil {
		return nil, apperrors.Internal("failed to create account", err)
	}

	now := time.Now()
	account := &domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		SuperAdmin:   count == 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperrors.Conflict("an account with this email already exists")
		}
		return nil, apperrors.Internal("failed to create account", err)
	}

	log.Info().
		Str("account_id", account.ID).
		Bool("super_admin", account.SuperAdmin).
		Msg("account registered")

	return account, nil
}

// Login verifies a password and issues a session token. All credential
// failures, unknown email, federated-only account, wrong password, produce
// the same response so the endpoint does not reveal which emails exist.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (string, *domain.Account, error) {
	email = normalizeEmail(email)
	if email == "" || plaintext == "" {
		return "", nil, apperrors.Validation("email and password are required")
	}

	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, errIncorrectCredentials()
		}
		return "", nil, apperrors.Internal("failed to log in", err)
	}

	if err := s.hasher.Verify(account.PasswordHash, plaintext); err != nil {
		switch {
		case errors.Is(err, password.ErrMismatch), errors.Is(err, password.ErrNoHash):
			return "", nil, errIncorrectCredentials()
		default:
			// A hash that cannot be parsed is stored-data corruption, not a
			// credential problem. Surface it as a 500 and keep the message
			// opaque.
			log.Error().Err(err).Str("account_id", account.ID).Msg("stored password hash is unreadable")
			return "", nil, apperrors.Internal("failed to log in", err)
		}
	}

	token, err := s.tokens.SignSession(account)
	if err != nil {
		return "", nil, apperrors.Internal("failed to log in", err)
	}
	return token, account, nil
}

// MintAPIToken issues a long-lived token for the authenticated caller.
// Expiration is expressed in whole days, 1 through 30. The caller's current
// account record is re-read so the token reflects privileges as of minting,
// not as of the session's login.
func (s *AuthService) MintAPIToken(ctx context.Context, claims *domain.SessionClaims, expirationDays int) (string, error) {
	if expirationDays < 1 || expirationDays > 30 {
		return "", apperrors.Validation("expiration must be between 1 and 30 days")
	}

	account, err := s.accounts.GetAccountByID(ctx, claims.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", apperrors.Unauthenticated("account no longer exists")
		}
		return "", apperrors.Internal("failed to mint token", err)
	}

	token, err := s.tokens.SignAPIToken(account, time.Duration(expirationDays)*24*time.Hour)
	if err != nil {
		return "", apperrors.Internal("failed to mint token", err)
	}
	return token, nil
}

func errIncorrectCredentials() error {
	return apperrors.Unauthenticated("incorrect email or password")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
