package directory

import "errors"

var (
	// ErrHostNotConfigured is returned when the directory host is missing.
	ErrHostNotConfigured = errors.New("directory host is not configured")

	// ErrBaseDNNotConfigured is returned when the search base DN is missing.
	ErrBaseDNNotConfigured = errors.New("directory baseDn is not configured")
)
