package services

import "errors"

// Sentinel errors distinguishing the failure classes that handlers
// translate to HTTP statuses. Repositories contribute
// store.ErrNotFound and store.ErrInvalidState; the services add the
// request-shaped classes below.
var (
	// ErrValidation marks malformed or semantically invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrPermission marks an authenticated actor lacking the right to
	// perform the operation.
	ErrPermission = errors.New("permission denied")

	// ErrCredentials marks a failed login attempt.
	ErrCredentials = errors.New("invalid credentials")
)
