package federation

import "errors"

var (
	ErrProviderNotFound       = errors.New("provider not found or not enabled")
	ErrExchangeCodeFailed     = errors.New("failed to exchange authorization code for token")
	ErrFetchUserInfoFailed    = errors.New("failed to fetch user info from provider")
	ErrNoVerifiedPrimaryEmail = errors.New("provider account has no verified primary email")
)
