package federation

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// NewState returns a random, URL-safe anti-CSRF token for the OAuth state
// parameter. 32 bytes of entropy, base64url without padding.
func NewState() (string, error) {
	return randomToken(32)
}

// NewCodeVerifier returns a PKCE code verifier per RFC 7636. The verifier
// stays server-side; only its S256 challenge travels to the provider.
func NewCodeVerifier() (string, error) {
	return randomToken(32)
}

// ChallengeS256 derives the code challenge from a verifier using the S256
// transform.
func ChallengeS256(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
