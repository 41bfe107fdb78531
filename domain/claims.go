package domain

import "time"

// SessionClaims is the payload of a session token. It is never persisted:
// it exists inside a signed token and, after validation, as a request-scoped
// value. The fields are only trustworthy after signature and expiry
// verification; in particular SuperAdmin must never be taken from unsigned
// client input.
type SessionClaims struct {
	AccountID  string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email"`
	SuperAdmin bool      `json:"superAdmin"`
	IssuedAt   time.Time `json:"-"`
	ExpiresAt  time.Time `json:"-"`
}
