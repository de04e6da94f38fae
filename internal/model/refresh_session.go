package model

import "time"

// RefreshSession models an entry in the `refresh_sessions` table.  A
// session is the stateful half of a token pair: it proves a continued
// login from one device/network context and is the record consulted
// when the short-lived access token is renewed.
//
// The tuple (UserID, IP, Fingerprint, UserAgent) is the natural key of
// a session, distinct from the surrogate ID.  The table carries a
// composite unique index over those four columns so that at most one
// live session can exist per device context; repeated logins from the
// same context overwrite the row in place instead of accumulating
// history.
//
// Fields:
//  ID           – primary key identifier.
//  RefreshToken – opaque UUID value handed to the client; regenerated on
//                 every issuance and globally unique.
//  UserID       – owner of the session.
//  IP           – client address the session was issued to.
//  UserAgent    – client user agent string.
//  Fingerprint  – client-supplied opaque device identifier.
//  CreatedAt    – when this token value was issued.
//  ExpiredAt    – when this token value stops being accepted.
type RefreshSession struct {
	ID           uint64    // refresh_sessions.id
	RefreshToken string    // refresh_sessions.refresh_token
	UserID       uint64    // refresh_sessions.user_id
	IP           string    // refresh_sessions.ip
	UserAgent    string    // refresh_sessions.user_agent
	Fingerprint  string    // refresh_sessions.fingerprint
	CreatedAt    time.Time // refresh_sessions.created_at
	ExpiredAt    time.Time // refresh_sessions.expired_at
}
