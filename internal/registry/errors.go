package registry

import "errors"

var (
	// ErrBaseURLNotConfigured is returned when the registry base URL is missing.
	ErrBaseURLNotConfigured = errors.New("registry baseUrl is not configured")

	// ErrCredentialsNotConfigured is returned when the OAuth2 token endpoint or
	// client credentials are missing.
	ErrCredentialsNotConfigured = errors.New("registry OAuth2 credentials are not configured")

	// ErrUnexpectedStatus is returned on a non-200 response from the registry.
	ErrUnexpectedStatus = errors.New("registry returned an unexpected status")

	// ErrQueryFailed is returned when the registry reports GraphQL errors.
	ErrQueryFailed = errors.New("registry query failed")
)
