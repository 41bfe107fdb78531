package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tenauth/tenauth/domain"
)

var tokenTestAccount = &domain.Account{
	ID:         "acc-1",
	Email:      "alice@example.com",
	Name:       "Alice",
	SuperAdmin: true,
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	token, err := svc.SignSession(tokenTestAccount)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, "Alice", claims.Name)
	assert.True(t, claims.SuperAdmin)
	assert.WithinDuration(t, claims.IssuedAt.Add(SessionTokenTTL), claims.ExpiresAt, time.Second)
}

func TestTokenServiceExpired(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	token, err := svc.SignSession(tokenTestAccount)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(SessionTokenTTL + time.Minute) }
	_, err = svc.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceExpiredOutranksBadSignature(t *testing.T) {
	signer := NewTokenService([]byte("secret-a"))
	verifier := NewTokenService([]byte("secret-b"))

	issued := time.Now().Add(-100 * time.Hour)
	signer.now = func() time.Time { return issued }
	token, err := signer.SignSession(tokenTestAccount)
	require.NoError(t, err)

	// Expired and signed with the wrong secret: expiry wins.
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestTokenServiceWrongSecret(t *testing.T) {
	signer := NewTokenService([]byte("secret-a"))
	verifier := NewTokenService([]byte("secret-b"))

	token, err := signer.SignSession(tokenTestAccount)
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestTokenServiceTamperedPayload(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	token, err := svc.SignSession(tokenTestAccount)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	// Flip a character in the payload so the signature no longer matches.
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	_, err = svc.Verify(tampered)
	assert.Error(t, err)
}

func TestTokenServiceMalformed(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	for _, token := range []string{"", "not-a-token", "a.b", "a.b.c"} {
		_, err := svc.Verify(token)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", token)
	}
}

func TestTokenServiceAPITokenTTLRange(t *testing.T) {
	svc := NewTokenService([]byte("test-secret"))

	_, err := svc.SignAPIToken(tokenTestAccount, 12*time.Hour)
	assert.ErrorIs(t, err, ErrTTLOutOfRange)

	_, err = svc.SignAPIToken(tokenTestAccount, 31*24*time.Hour)
	assert.ErrorIs(t, err, ErrTTLOutOfRange)

	token, err := svc.SignAPIToken(tokenTestAccount, 720*time.Hour)
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.WithinDuration(t, claims.IssuedAt.Add(720*time.Hour), claims.ExpiresAt, time.Second)
}
