package domain

import "context"

type claimsContextKey struct{}

// WithClaims returns a context carrying validated session claims. The
// authentication middleware is the only writer; handlers and services read
// the claims back with ClaimsFromContext instead of relying on any ambient
// per-request state.
func WithClaims(ctx context.Context, claims *SessionClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext retrieves the validated session claims, if any.
func ClaimsFromContext(ctx context.Context) (*SessionClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*SessionClaims)
	return claims, ok && claims != nil
}
