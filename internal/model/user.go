package model

import "time"

// User represents an application account as stored in the `users`
// table. Each field corresponds to a column in the database. The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers define separate
// response types with appropriate JSON tags. Every user owns exactly
// one of the two profile kinds (participant or instructor), chosen at
// registration time; the role is never stored on the user row itself
// but derived from which profile row exists.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password.
//  FirstName    – optional given name (empty when not supplied).
//  LastName     – optional family name (empty when not supplied).
//  LastLogin    – when the user last logged in (nil before first login).
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           uint64     // users.id
	Username     string     // users.username
	Email        string     // users.email
	PasswordHash string     // users.password_hash
	FirstName    string     // users.first_name
	LastName     string     // users.last_name
	LastLogin    *time.Time // users.last_login (nullable)
	CreatedAt    time.Time  // users.created_at
	UpdatedAt    time.Time  // users.updated_at
}

// ParticipantProfile is the participant side of the closed role
// variant. A row exists only for users registered as participants.
// Accepted gates joining seminars: a participant whose profile is not
// accepted cannot join anything.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – owning user (unique, one profile per user).
//  University – free-text affiliation, may be empty.
//  Accepted   – whether the participant may join seminars.
type ParticipantProfile struct {
	ID         uint64 // participant_profiles.id
	UserID     uint64 // participant_profiles.user_id
	University string // participant_profiles.university
	Accepted   bool   // participant_profiles.accepted
}

// InstructorProfile is the instructor side of the role variant. A row
// exists only for users registered as instructors.
//
// Fields:
//  ID      – primary key identifier.
//  UserID  – owning user (unique, one profile per user).
//  Company – free-text affiliation, may be empty.
//  Year    – optional career year, strictly positive when present.
type InstructorProfile struct {
	ID      uint64 // instructor_profiles.id
	UserID  uint64 // instructor_profiles.user_id
	Company string // instructor_profiles.company
	Year    *int   // instructor_profiles.year (nullable)
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a user and carries expiry and revocation
// metadata. The plain token is never stored; only its SHA-256 hash.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owner of the token.
//  TokenHash – SHA-256 hex digest of the token value.
//  ExpiresAt – expiration timestamp of the token.
//  RevokedAt – when the token was revoked (nil if still active).
//  CreatedAt – timestamp of creation.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
