package model

import "time"

// UserRole enumerates the roles a user can hold.  New accounts are
// created with RoleUser; RoleAdmin is only ever assigned by
// out-of-scope account management flows.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleUser  UserRole = "USER"
)

// UserStatus enumerates account states.  StatusBanned exists in the
// schema but is not currently enforced anywhere in the login flow.
type UserStatus string

const (
	StatusActive UserStatus = "ACTIVE"
	StatusBanned UserStatus = "BANNED"
)

// User represents an application user record as stored in the
// `users` table.  Each field corresponds to a column.  The json tags
// are omitted here because these structs are used internally by the
// repository and service layers; handlers define separate response
// types with appropriate JSON tags.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique, lowercased email address used as the login key.
//  PasswordHash – bcrypt hashed password; the plaintext is never stored.
//  FirstName    – given name.
//  LastName     – family name.
//  DisplayName  – public display name.
//  Bio          – optional free-form profile text.
//  VKURL        – optional link to an external VK profile.
//  SteamURL     – optional link to an external Steam profile.
//  Role         – ADMIN or USER.
//  Status       – ACTIVE or BANNED.
//  IsActivated  – whether the account finished activation.
//  RegisteredAt – timestamp of registration.
type User struct {
	ID           uint64     // users.id
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	DisplayName  string     // users.display_name
	Bio          *string    // users.bio (nullable)
	VKURL        *string    // users.vk_url (nullable)
	SteamURL     *string    // users.steam_url (nullable)
	Role         UserRole   // users.role
	Status       UserStatus // users.status
	IsActivated  bool       // users.is_activated
	RegisteredAt time.Time  // users.registered_at
}
