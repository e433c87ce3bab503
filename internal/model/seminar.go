package model

import "time"

// Enrollment roles. A membership row is created with exactly one of
// these and the role never changes afterwards.
const (
	RoleParticipant = "participant"
	RoleInstructor  = "instructor"
)

// ValidRole reports whether s is one of the two enrollment roles.
func ValidRole(s string) bool {
	return s == RoleParticipant || s == RoleInstructor
}

// Seminar represents a row in the `seminars` table. Capacity is the
// ceiling on simultaneously active participant enrollments; Count is
// carried through from the legacy schema and is serialized but not
// consulted by any transition.
//
// Fields:
//  ID        – primary key identifier, immutable after creation.
//  Name      – seminar name, indexed for substring search.
//  Capacity  – maximum concurrent active participants (> 0).
//  Count     – legacy counter, exposed but unused by business logic.
//  Time      – time of day the seminar meets, stored as "HH:MM".
//  Online    – whether the seminar is held online.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Seminar struct {
	ID        uint64    // seminars.id
	Name      string    // seminars.name
	Capacity  uint32    // seminars.capacity
	Count     uint32    // seminars.count
	Time      string    // seminars.time ("HH:MM")
	Online    bool      // seminars.online
	CreatedAt time.Time // seminars.created_at
	UpdatedAt time.Time // seminars.updated_at
}

// UserSeminar is the enrollment ledger row binding one user to one
// seminar with a role and an active/dropped lifecycle state. The pair
// (UserID, SeminarID) is unique regardless of IsActive, so a user who
// dropped a seminar can never obtain a second row for it. Rows are
// never deleted; a participant drop flips IsActive and stamps
// DroppedAt exactly once, and instructor rows never transition.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – enrolled user.
//  SeminarID – target seminar.
//  Role      – RoleParticipant or RoleInstructor.
//  IsActive  – true while the enrollment is in force.
//  DroppedAt – when the participant dropped (nil while active,
//              always nil for instructors).
//  CreatedAt – join timestamp.
//  UpdatedAt – timestamp of last update.
type UserSeminar struct {
	ID        uint64     // user_seminars.id
	UserID    uint64     // user_seminars.user_id
	SeminarID uint64     // user_seminars.seminar_id
	Role      string     // user_seminars.role
	IsActive  bool       // user_seminars.is_active
	DroppedAt *time.Time // user_seminars.dropped_at (nullable)
	CreatedAt time.Time  // user_seminars.created_at
	UpdatedAt time.Time  // user_seminars.updated_at
}
