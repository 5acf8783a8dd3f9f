package entity

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrListingNotFound    = errors.New("listing not found")

	// ErrLookupUnavailable covers an unreachable place directory or a non-success answer from it.
	ErrLookupUnavailable = errors.New("place lookup unavailable")
)
