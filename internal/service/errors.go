// Package service implements the session/token lifecycle core: the
// credential checks behind registration and login, and the rules by
// which an access token and a refresh session are minted and
// reconciled per (user, device) identity tuple.
package service

import "errors"

// The three client-input failures of the core. They are never retried
// and carry a message only; the transport layer maps them onto HTTP
// statuses. Anything else coming out of the services is a storage
// failure wrapped with fmt.Errorf("%w") and should surface as a
// generic server error.
var (
	// ErrDuplicateUser is returned by Registration when the email is
	// already taken.
	ErrDuplicateUser = errors.New("user with this email address already exists")

	// ErrUserNotFound is returned by Login when no user matches the
	// email. Deliberately distinct from ErrInvalidCredentials: the
	// messages disclose which check failed, and unifying them for
	// security hygiene is a pending product decision.
	ErrUserNotFound = errors.New("no user found with this email address")

	// ErrInvalidCredentials is returned by Login when the password does
	// not verify against the stored hash.
	ErrInvalidCredentials = errors.New("invalid password")
)
