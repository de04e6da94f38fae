// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// services to distinguish between different failure scenarios without
// inspecting driver-specific error strings themselves. For example,
// ErrEmailExists signals that a user insert hit the unique email index,
// while ErrSessionExists signals that a session insert hit the composite
// device-key index and the caller should fall back to the update path.
package repository

import (
	"errors"
	"strings"
)

// ErrEmailExists is returned when a user insert violates the unique
// email index. The service layer translates this into its duplicate
// user error.
var ErrEmailExists = errors.New("email already exists")

// ErrSessionExists is returned when a refresh session insert violates
// the composite unique index over (user_id, ip, fingerprint,
// user_agent). It means another request for the same device context
// won the insert race; the caller should re-read and update instead.
var ErrSessionExists = errors.New("refresh session already exists for device")

// ErrNotFound is returned when a lookup matches no row. Repositories
// return it instead of sql.ErrNoRows so that callers do not need to
// import database/sql to branch on absence.
var ErrNotFound = errors.New("not found")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (error number 1062).
func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "1062")
}
