// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation (e.g., login or email taken).
	ErrAlreadyExists = errors.New("already exists")

	// ErrUnauthorized indicates failed authentication (bad login/password pair).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBlobNotFound indicates a blob key with no stored bytes. Patient photo
	// lookups treat this as "no photo" rather than a failure.
	ErrBlobNotFound = errors.New("blob not found")

	// ErrNoSession indicates no user is currently signed in.
	ErrNoSession = errors.New("no active session")
)
