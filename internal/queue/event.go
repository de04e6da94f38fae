// Package queue defines message payloads exchanged over the message broker,
// the publisher used by the HTTP layer and the background consumer that
// drains the queue into a log file.
package queue

// UserRegisteredEvent is published when a registration succeeds. It
// contains enough information for downstream consumers to notify or
// trigger analytics without querying the primary database. No
// credential material is ever included.
type UserRegisteredEvent struct {
	UserID       uint64 `json:"user_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	Fingerprint  string `json:"fingerprint"`
	IP           string `json:"ip"`
	RegisteredAt string `json:"registered_at"`
}
