package utils

import "errors"

// Common application errors used across services. Names mirror the API
// error codes surfaced to clients.
var (
	ErrInvalidCredentials = errors.New("INVALID_CREDENTIALS")
	ErrAccountInactive    = errors.New("ACCOUNT_INACTIVE")
	ErrAccountBlocked     = errors.New("ACCOUNT_BLOCKED")
	ErrNetworkError       = errors.New("NETWORK_ERROR")
	ErrSessionNotFound    = errors.New("SESSION_NOT_FOUND")
	ErrInvalidToken       = errors.New("INVALID_TOKEN")
	ErrProfileNotFound    = errors.New("PROFILE_NOT_FOUND")
	ErrProductNotFound    = errors.New("PRODUCT_NOT_FOUND")
	ErrClientNotFound     = errors.New("CLIENT_NOT_FOUND")
	ErrDuplicateEmail     = errors.New("DUPLICATE_EMAIL")
)
