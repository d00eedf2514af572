// Package common defines shared constants and sentinel errors used across
// the server and client. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Authentication outcomes visible to callers.
	ErrInvalidCredentials = errors.New("invalid id or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrSocialAuth         = errors.New("social authentication failed")

	// ErrUnsupportedProvider is returned for provider tags with no registered
	// profile fetcher. It matches ErrSocialAuth as well.
	ErrUnsupportedProvider = fmt.Errorf("%w: unsupported provider", ErrSocialAuth)

	// Service-level errors.
	ErrorInternal   = errors.New("internal error")
	ErrorValidation = errors.New("validation error")
	ErrForbidden    = errors.New("forbidden")

	// Token errors.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)
