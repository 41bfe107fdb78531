package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost keeps verification in the tens of milliseconds on current
// hardware.
const DefaultCost = 10

var (
	// ErrMismatch means the password does not match the stored hash.
	ErrMismatch = errors.New("password mismatch")

	// ErrNoHash means the account has no local password hash. Verification
	// fails closed instead of skipping the comparison.
	ErrNoHash = errors.New("account has no password hash")

	// ErrBadHash means the stored hash could not be parsed. Callers log it
	// as an integrity problem; the client-facing response must stay
	// indistinguishable from a wrong password.
	ErrBadHash = errors.New("malformed password hash")
)

// Hasher hashes and verifies passwords.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) error
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost <= 0 {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a plaintext password with the stored hash. It is a pure
// comparison with no side effects.
func (h *BcryptHasher) Verify(hash, password string) error {
	if hash == "" {
		return ErrNoHash
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrMismatch
	default:
		return fmt.Errorf("%w: %v", ErrBadHash, err)
	}
}

var _ Hasher = (*BcryptHasher)(nil)
